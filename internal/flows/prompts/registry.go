package prompts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidInput marks failures of a prompt's input validators.
var ErrInvalidInput = errors.New("invalid prompt input")

type Template struct {
	Name        PromptName
	Version     int
	SchemaName  string
	Schema      func() map[string]any
	Temperature *float64
	System      func(Input) (string, error)
	User        func(Input) (string, error)
	Validate    func(Input) error
}

var (
	mu       sync.RWMutex
	registry = map[PromptName]Template{}
)

func Register(t Template) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.Name] = t
}

// Build validates in and renders the named prompt.
func Build(name PromptName, in Input) (Prompt, error) {
	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w: %v", string(name), ErrInvalidInput, err)
		}
	}
	system, err := t.System(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s: render system: %w", string(name), err)
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s: render user: %w", string(name), err)
	}
	return Prompt{
		Name:        string(t.Name),
		Version:     t.Version,
		SchemaName:  strings.TrimSpace(t.SchemaName),
		Schema:      t.Schema(),
		System:      system,
		User:        user,
		Temperature: t.Temperature,
	}, nil
}

// Names lists every registered prompt, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}
