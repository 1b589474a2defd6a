// Package flows runs the named legal-assistant prompts against an LLM and returns validated, typed results.
package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/platform/promptstyle"
)

// maxPromptRunes caps document text embedded in a single prompt.
const maxPromptRunes = 60000

type Runner struct {
	llm      llm.Client
	log      *logger.Logger
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewRunner(baseLog *logger.Logger, client llm.Client) *Runner {
	return &Runner{
		llm:      client,
		log:      baseLog.With("service", "FlowRunner", "provider", client.Provider()),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer("justicebot/flows"),
	}
}

func run[T any](ctx context.Context, r *Runner, name prompts.PromptName, in prompts.Input, normalize func(*T)) (T, error) {
	var out T
	p, err := prompts.Build(name, in)
	if err != nil {
		return out, err
	}

	ctx, span := r.tracer.Start(ctx, "flow."+string(name), trace.WithAttributes(
		attribute.String("flow.name", p.Name),
		attribute.Int("flow.version", p.Version),
		attribute.String("llm.provider", r.llm.Provider()),
	))
	defer span.End()

	start := time.Now()
	raw, err := r.llm.GenerateJSON(ctx, llm.Request{
		Flow:        p.Name,
		System:      promptstyle.ApplySystem(p.System, "json"),
		User:        p.User,
		SchemaName:  p.SchemaName,
		Schema:      p.Schema,
		Temperature: p.Temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyOutput) || errors.Is(err, llm.ErrRefused) {
			err = &MalformedResponseError{Flow: p.Name, Reason: "no usable output", Err: err}
		} else {
			err = fmt.Errorf("flow %s: %w", p.Name, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		r.log.Warn("flow failed", "flow", p.Name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return out, err
	}

	if err := json.Unmarshal(stripCodeFence(raw), &out); err != nil {
		merr := &MalformedResponseError{Flow: p.Name, Reason: "decode", Err: err}
		span.RecordError(merr)
		span.SetStatus(codes.Error, "decode")
		r.log.Warn("flow output not json", "flow", p.Name, "bytes", len(raw))
		return out, merr
	}
	if normalize != nil {
		normalize(&out)
	}
	if err := r.validate.Struct(out); err != nil {
		merr := &MalformedResponseError{Flow: p.Name, Reason: "validation", Err: err}
		span.RecordError(merr)
		span.SetStatus(codes.Error, "validation")
		r.log.Warn("flow output invalid", "flow", p.Name, "error", err)
		return out, merr
	}

	r.log.Debug("flow ok", "flow", p.Name, "version", p.Version, "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

func stripCodeFence(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxPromptRunes {
		return s
	}
	return string(r[:maxPromptRunes])
}
