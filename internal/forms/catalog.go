// Package forms is the embedded catalog of tribunal and court forms, with a keyword classifier over it.
package forms

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed forms.yaml
var catalogYAML []byte

// FallbackLabel is returned by Match when no category keyword hits.
const FallbackLabel = "Other"

type Form struct {
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Tribunal string `yaml:"tribunal" json:"tribunal"`
}

// Display renders "CODE - Name".
func (f Form) Display() string {
	return f.Code + " - " + f.Name
}

type Category struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Forms    []Form   `yaml:"forms" json:"forms"`
}

type Catalog struct {
	categories []Category
	byKey      map[string]int
}

type catalogFile struct {
	Categories []Category `yaml:"categories"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

func Parse(b []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse forms catalog: %w", err)
	}
	c := &Catalog{byKey: map[string]int{}}
	for _, cat := range f.Categories {
		key := strings.TrimSpace(cat.Key)
		if key == "" || strings.TrimSpace(cat.Label) == "" {
			return nil, fmt.Errorf("forms catalog: category missing key or label")
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("forms catalog: duplicate category %q", key)
		}
		for i, kw := range cat.Keywords {
			cat.Keywords[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		c.byKey[key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// List returns the forms for a category key or label; an empty category lists every form once.
func (c *Catalog) List(category string) ([]Form, bool) {
	category = strings.TrimSpace(category)
	if category == "" {
		seen := map[string]bool{}
		var out []Form
		for _, cat := range c.categories {
			for _, f := range cat.Forms {
				id := f.Tribunal + "|" + f.Code
				if seen[id] {
					continue
				}
				seen[id] = true
				out = append(out, f)
			}
		}
		return out, true
	}
	cat, ok := c.lookup(category)
	if !ok {
		return nil, false
	}
	return append([]Form(nil), cat.Forms...), true
}

func (c *Catalog) lookup(s string) (Category, bool) {
	if i, ok := c.byKey[strings.ToLower(s)]; ok {
		return c.categories[i], true
	}
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Label, s) {
			return cat, true
		}
	}
	return Category{}, false
}

type Match struct {
	Category Category
	Hits     int
}

// Rank scores every category by keyword hits in text, best first. Ties keep catalog order.
func (c *Catalog) Rank(text string) []Match {
	lower := strings.ToLower(text)
	var out []Match
	for _, cat := range c.categories {
		hits := 0
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > 0 {
			out = append(out, Match{Category: cat, Hits: hits})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hits > out[j].Hits })
	return out
}

// Match returns the best category label for text, or FallbackLabel.
func (c *Catalog) Match(text string) string {
	if ranked := c.Rank(text); len(ranked) > 0 {
		return ranked[0].Category.Label
	}
	return FallbackLabel
}

// SuggestFor lists display names of the forms for a classification label, or nil when unknown.
func (c *Catalog) SuggestFor(classification string) []string {
	cat, ok := c.lookup(strings.TrimSpace(classification))
	if !ok {
		return nil
	}
	out := make([]string, 0, len(cat.Forms))
	for _, f := range cat.Forms {
		out = append(out, f.Display())
	}
	return out
}
