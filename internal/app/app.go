package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/justicebot/justicebot-backend/internal/data/db"
	"github.com/justicebot/justicebot-backend/internal/http"
	"github.com/justicebot/justicebot-backend/internal/observability"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/temporalx/temporalworker"
)

// Role selects which clients a process needs.
type Role string

const (
	RoleAPI    Role = "api"
	RoleWorker Role = "worker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Role     Role
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, role Role) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log = log.With("role", string(role))

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	theDB, err := db.Open(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg, role)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	services, err := wireServices(log, cfg, role, clients, reposet)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	a := &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Role:         role,
		Clients:      clients,
		Repos:        reposet,
		Services:     services,
		shutdownOTel: shutdown,
	}
	if role == RoleAPI {
		a.Server = wireServer(log, cfg, theDB, clients, reposet, services)
	}
	return a, nil
}

// Serve runs the HTTP server, plus the bus consumer when one is wired, until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized for serving")
	}
	g, gctx := errgroup.WithContext(ctx)
	if a.Services.Consumer != nil {
		if err := a.Services.Consumer.Start(gctx); err != nil {
			return fmt.Errorf("start event consumer: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			a.Services.Consumer.Wait()
			return nil
		})
	}
	g.Go(func() error {
		return a.Server.Run(gctx, ":"+a.Cfg.Port)
	})
	return g.Wait()
}

// Work runs the background side of the configured dispatch mode until ctx is done.
func (a *App) Work(ctx context.Context) error {
	if a == nil {
		return errors.New("app not initialized")
	}
	switch a.Cfg.DispatchMode {
	case DispatchTemporal:
		runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Cfg.Temporal, a.Services.Pipeline, a.Services.Notifier)
		if err != nil {
			return err
		}
		if err := runner.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	case DispatchRedis:
		if a.Services.Consumer == nil {
			return errors.New("event consumer is not wired")
		}
		if err := a.Services.Consumer.Start(ctx); err != nil {
			return fmt.Errorf("start event consumer: %w", err)
		}
		<-ctx.Done()
		a.Services.Consumer.Wait()
		return nil
	default:
		return fmt.Errorf("EVENT_DISPATCH_MODE=%s runs in the API process; nothing for a worker to do", a.Cfg.DispatchMode)
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		_ = a.shutdownOTel(context.Background())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate opens the configured database and applies the schema.
func Migrate(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	theDB, err := db.Open(log)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(theDB.WithContext(ctx)); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("migrations applied")
	return nil
}
