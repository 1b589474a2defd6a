package app

import (
	"fmt"
	"strings"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/http/handlers"
	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/temporalx"
)

type DispatchMode string

const (
	DispatchInline   DispatchMode = "inline"
	DispatchMemory   DispatchMode = "memory"
	DispatchRedis    DispatchMode = "redis"
	DispatchTemporal DispatchMode = "temporal"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string
	Version     string

	ProjectID         string
	FirebaseProjectID string
	RecaptchaSiteKey  string
	CORSOrigins       []string

	LLMProvider string

	DispatchMode        DispatchMode
	EventBuffer         int
	EventWorkers        int
	ConsumeInAPI        bool
	StorageWebhookToken string

	MaxUploadBytes int64
	MaxObjectBytes int64
	AutoMigrate    bool

	Public   handlers.PublicConfig
	Temporal temporalx.Config
}

func LoadConfig() (Config, error) {
	projectID := gcp.ProjectID()
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		ServiceName: envutil.String("SERVICE_NAME", "justicebot-api"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		ProjectID:         projectID,
		FirebaseProjectID: envutil.String("FIREBASE_PROJECT_ID", projectID),
		RecaptchaSiteKey:  envutil.String("NEXT_PUBLIC_RECAPTCHA_SITE_KEY", ""),
		CORSOrigins:       envutil.List("CORS_ALLOWED_ORIGINS"),

		LLMProvider: strings.ToLower(envutil.String("LLM_PROVIDER", "gemini")),

		DispatchMode:        DispatchMode(strings.ToLower(envutil.String("EVENT_DISPATCH_MODE", string(DispatchInline)))),
		EventBuffer:         envutil.Int("EVENT_BUS_BUFFER", 256),
		EventWorkers:        envutil.Int("EVENT_CONSUMER_WORKERS", evidence.DefaultConsumerWorkers),
		ConsumeInAPI:        envutil.Bool("EVENT_CONSUME_IN_API", true),
		StorageWebhookToken: envutil.String("STORAGE_WEBHOOK_TOKEN", ""),

		MaxUploadBytes: envutil.Int64("MAX_UPLOAD_BYTES", handlers.DefaultMaxUploadBytes),
		MaxObjectBytes: envutil.Int64("MAX_OBJECT_BYTES", 40<<20),
		AutoMigrate:    envutil.Bool("DB_AUTO_MIGRATE", true),

		Temporal: temporalx.LoadConfig(),
	}
	cfg.Public = handlers.PublicConfig{
		RecaptchaSiteKey:     cfg.RecaptchaSiteKey,
		StripePublishableKey: envutil.String("NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY", ""),
		FreeTierEnabled:      envutil.Bool("NEXT_PUBLIC_FREE_TIER_ENABLED", false),
		FirebaseProjectID:    cfg.FirebaseProjectID,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DispatchMode {
	case DispatchInline, DispatchMemory, DispatchRedis:
	case DispatchTemporal:
		if !c.Temporal.Enabled() {
			return fmt.Errorf("EVENT_DISPATCH_MODE=temporal requires TEMPORAL_ADDRESS")
		}
	default:
		return fmt.Errorf("unsupported EVENT_DISPATCH_MODE %q", c.DispatchMode)
	}
	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// runsPipelineInAPI reports whether the API process needs the extraction clients.
func (c Config) runsPipelineInAPI() bool {
	switch c.DispatchMode {
	case DispatchInline, DispatchMemory:
		return true
	case DispatchRedis:
		return c.ConsumeInAPI
	}
	return false
}
