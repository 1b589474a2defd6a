package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/httpx"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/platform/promptstyle"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	HTTPClient *http.Client
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:     envutil.String("GEMINI_API_KEY", envutil.String("GOOGLE_API_KEY", "")),
		Model:      envutil.String("GEMINI_MODEL", "gemini-2.5-flash"),
		BaseURL:    envutil.String("GEMINI_BASE_URL", ""),
		MaxRetries: envutil.Int("GEMINI_MAX_RETRIES", 3),
	}
}

type client struct {
	log         *logger.Logger
	genai       *genai.Client
	model       string
	maxRetries  int
	baseBackoff time.Duration
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (llm.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &client{
		log:         log.With("service", "GeminiClient"),
		genai:       gc,
		model:       cfg.Model,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: time.Second,
	}, nil
}

func (c *client) Provider() string { return "gemini" }

func (c *client) GenerateJSON(ctx context.Context, req llm.Request) ([]byte, error) {
	conf := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(promptstyle.ApplySystem(req.System, "json"), genai.RoleUser),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: req.Schema,
	}
	if req.Temperature != nil {
		conf.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	contents := []*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}

	backoff := c.baseBackoff
	for attempt := 0; ; attempt++ {
		resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, conf)
		if err == nil {
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
					return nil, fmt.Errorf("%w: %s", llm.ErrRefused, resp.PromptFeedback.BlockReason)
				}
				return nil, llm.ErrEmptyOutput
			}
			return []byte(text), nil
		}
		if !isRetryable(err) || attempt >= c.maxRetries {
			return nil, fmt.Errorf("gemini generate (%s): %w", req.Flow, err)
		}
		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("Gemini request retrying",
			"flow", req.Flow,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.SleepContext(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return httpx.IsRetryableHTTPStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return httpx.IsRetryableHTTPStatus(apiErrPtr.Code)
	}
	return httpx.IsRetryableError(err)
}
