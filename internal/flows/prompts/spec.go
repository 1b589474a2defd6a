package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec is the declaration format for a prompt. System and User are text/template
// sources rendered against Input.
type Spec struct {
	Name        PromptName
	Version     int
	SchemaName  string
	Schema      func() map[string]any
	System      string
	User        string
	Temperature *float64
	Validators  []Validator
}

var funcs = template.FuncMap{
	"trim": strings.TrimSpace,
}

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.SchemaName) == "" {
		return Template{}, fmt.Errorf("missing schema name for %s", s.Name)
	}
	if s.Schema == nil {
		return Template{}, fmt.Errorf("missing schema func for %s", s.Name)
	}
	sysT, err := template.New("system").Funcs(funcs).Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Funcs(funcs).Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	render := func(t *template.Template, in Input) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
	validators := append([]Validator(nil), s.Validators...)
	return Template{
		Name:        s.Name,
		Version:     s.Version,
		SchemaName:  s.SchemaName,
		Schema:      s.Schema,
		Temperature: s.Temperature,
		System:      func(in Input) (string, error) { return render(sysT, in) },
		User:        func(in Input) (string, error) { return render(userT, in) },
		Validate: func(in Input) error {
			for _, v := range validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

// RegisterSpec compiles and registers s, panicking on a malformed declaration.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
