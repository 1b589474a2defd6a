package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/justicebot/justicebot-backend/internal/events"
	"github.com/justicebot/justicebot-backend/internal/platform/firebaseauth"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/gemini"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/platform/openai"
	"github.com/justicebot/justicebot-backend/internal/temporalx"
)

type Clients struct {
	LLM       llm.Client
	Bucket    gcp.BucketService
	Verifier  firebaseauth.Verifier
	Recaptcha gcp.Recaptcha

	// Pipeline-only clients; nil when this process never runs the pipeline.
	Vision    gcp.Vision
	Document  gcp.Document
	Messaging gcp.Messaging

	Bus      events.Bus
	Temporal temporalsdkclient.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, role Role) (Clients, error) {
	log.Info("Wiring clients...", "role", string(role), "dispatch", string(cfg.DispatchMode), "llm", cfg.LLMProvider)
	var c Clients
	fail := func(err error) (Clients, error) {
		c.Close()
		return Clients{}, err
	}

	bucket, err := gcp.NewBucketService(log, cfg.MaxObjectBytes)
	if err != nil {
		return fail(fmt.Errorf("init bucket client: %w", err))
	}
	c.Bucket = bucket

	pipeline := role == RoleWorker || cfg.runsPipelineInAPI()
	if role == RoleAPI || pipeline {
		client, err := newLLM(ctx, log, cfg.LLMProvider)
		if err != nil {
			return fail(err)
		}
		c.LLM = client
	}

	if role == RoleAPI {
		verifier, err := firebaseauth.NewVerifier(firebaseauth.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			return fail(fmt.Errorf("init firebase verifier: %w", err))
		}
		c.Verifier = verifier

		if cfg.ProjectID != "" && cfg.RecaptchaSiteKey != "" {
			rc, err := gcp.NewRecaptcha(log, cfg.ProjectID, cfg.RecaptchaSiteKey)
			if err != nil {
				return fail(fmt.Errorf("init recaptcha: %w", err))
			}
			c.Recaptcha = rc
		} else {
			log.Warn("recaptcha not configured; verification will always fail")
		}
	}

	if pipeline {
		vision, err := gcp.NewVision(log)
		if err != nil {
			return fail(fmt.Errorf("init vision client: %w", err))
		}
		c.Vision = vision
		document, err := gcp.NewDocument(log)
		if err != nil {
			return fail(fmt.Errorf("init document client: %w", err))
		}
		c.Document = document
		messaging, err := gcp.NewMessaging(log, cfg.FirebaseProjectID)
		if err != nil {
			return fail(fmt.Errorf("init fcm client: %w", err))
		}
		c.Messaging = messaging
	}

	switch cfg.DispatchMode {
	case DispatchMemory:
		c.Bus = events.NewMemoryBus(log, cfg.EventBuffer)
	case DispatchRedis:
		bus, err := events.NewRedisBus(log)
		if err != nil {
			return fail(fmt.Errorf("init redis bus: %w", err))
		}
		c.Bus = bus
	case DispatchTemporal:
		tc, err := temporalx.NewClient(log, cfg.Temporal)
		if err != nil {
			return fail(fmt.Errorf("init temporal client: %w", err))
		}
		c.Temporal = tc
	}

	return c, nil
}

func newLLM(ctx context.Context, log *logger.Logger, provider string) (llm.Client, error) {
	switch provider {
	case "openai":
		client, err := openai.NewClient(log, openai.ConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return client, nil
	default:
		client, err := gemini.NewClient(ctx, log, gemini.ConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return client, nil
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Document != nil {
		_ = c.Document.Close()
	}
	if c.Vision != nil {
		_ = c.Vision.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
}
