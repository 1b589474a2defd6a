package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/httpx"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/platform/promptstyle"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature *float64
	HTTPClient  *http.Client
}

// ConfigFromEnv reads OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL, OPENAI_TIMEOUT_SECONDS,
// OPENAI_MAX_RETRIES and OPENAI_TEMPERATURE ("off" disables it).
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:     envutil.String("OPENAI_API_KEY", ""),
		BaseURL:    envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:      envutil.String("OPENAI_MODEL", "gpt-4.1-mini"),
		Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 180*time.Second),
		MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 4),
	}
	switch raw := strings.ToLower(envutil.String("OPENAI_TEMPERATURE", "")); raw {
	case "off", "none", "false":
	case "":
		cfg.Temperature = llm.Float(0.2)
	default:
		cfg.Temperature = llm.Float(envutil.Float("OPENAI_TEMPERATURE", 0.2))
	}
	return cfg
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	maxRetries  int
	temperature *float64
	baseBackoff time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (llm.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 180 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:         log.With("service", "OpenAIClient"),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		httpClient:  cfg.HTTPClient,
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
		baseBackoff: time.Second,
	}, nil
}

func (c *client) Provider() string { return "openai" }

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func isUnsupportedTemperatureParam(err error) bool {
	var he *openAIHTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(he.Body)
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, s := range []string{"unsupported", "unknown parameter", "not supported", "does not support", "only the default"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string         `json:"model"`
	Input       []inputMessage `json:"input"`
	Text        textOptions    `json:"text"`
	Temperature *float64       `json:"temperature,omitempty"`
}

type textOptions struct {
	Format map[string]any `json:"format,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func extractOutputText(resp responsesResponse) (text string, refusal string) {
	var out, ref strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			switch part.Type {
			case "output_text":
				out.WriteString(part.Text)
			case "refusal":
				ref.WriteString(part.Refusal)
			}
		}
	}
	return out.String(), ref.String()
}

func (c *client) GenerateJSON(ctx context.Context, req llm.Request) ([]byte, error) {
	if req.SchemaName == "" || req.Schema == nil {
		return nil, errors.New("openai: schema name and schema required")
	}
	body := responsesRequest{
		Model: c.model,
		Input: []inputMessage{
			{Role: "system", Content: promptstyle.ApplySystem(req.System, "json")},
			{Role: "user", Content: req.User},
		},
		Temperature: c.temperature,
	}
	if req.Temperature != nil {
		body.Temperature = req.Temperature
	}
	body.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   req.SchemaName,
		"schema": req.Schema,
		"strict": true,
	}

	var resp responsesResponse
	err := c.do(ctx, "/v1/responses", &body, &resp)
	if err != nil && body.Temperature != nil && isUnsupportedTemperatureParam(err) {
		c.log.Warn("model rejected temperature; retrying without it", "model", c.model, "flow", req.Flow)
		body.Temperature = nil
		err = c.do(ctx, "/v1/responses", &body, &resp)
	}
	if err != nil {
		return nil, err
	}

	text, refusal := extractOutputText(resp)
	if refusal != "" {
		return nil, fmt.Errorf("%w: %s", llm.ErrRefused, refusal)
	}
	if strings.TrimSpace(text) == "" {
		return nil, llm.ErrEmptyOutput
	}
	return []byte(text), nil
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := c.baseBackoff
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w", uErr)
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.SleepContext(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}
}
