package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if get == nil {
			return fmt.Errorf("validator for %s: getter is nil", field)
		}
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

func RequireOneOf(field string, get func(Input) string, allowed ...string) Validator {
	return func(in Input) error {
		v := strings.TrimSpace(get(in))
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
}

func RequireMaxLen(field string, max int, get func(Input) string) Validator {
	return func(in Input) error {
		if n := len([]rune(get(in))); n > max {
			return fmt.Errorf("%s too long (%d > %d characters)", field, n, max)
		}
		return nil
	}
}
