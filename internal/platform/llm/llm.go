// Package llm is the provider-neutral contract for structured generation.
package llm

import (
	"context"
	"errors"
)

var (
	ErrEmptyOutput = errors.New("llm: empty output")
	ErrRefused     = errors.New("llm: model refused")
)

type Request struct {
	// Flow names the calling flow, for logs.
	Flow        string
	System      string
	User        string
	SchemaName  string
	Schema      map[string]any
	Temperature *float64
}

// Client returns the raw JSON text produced for req. Callers own decoding and validation.
type Client interface {
	GenerateJSON(ctx context.Context, req Request) ([]byte, error)
	Provider() string
}

func Float(v float64) *float64 { return &v }
