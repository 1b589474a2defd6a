package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/temporalx"
	"github.com/justicebot/justicebot-backend/internal/temporalx/evidenceflow"
)

const (
	startMaxWait    = 60 * time.Second
	startBackoff    = 250 * time.Millisecond
	startBackoffMax = 5 * time.Second
)

type Runner struct {
	log *logger.Logger
	tc  temporalsdkclient.Client
	cfg temporalx.Config

	pipeline evidence.Processor
	notifier evidence.CreatedNotifier
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	pipeline evidence.Processor,
	notifier evidence.CreatedNotifier,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if pipeline == nil || notifier == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{
		log:      log.With("service", "TemporalWorker"),
		tc:       tc,
		cfg:      cfg,
		pipeline: pipeline,
		notifier: notifier,
	}, nil
}

// Start polls the task queue until ctx is done, retrying worker start for up to a minute.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	if r.cfg.AutoRegister {
		if err := temporalx.EnsureNamespace(ctx, r.log, r.cfg); err != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", r.cfg.Namespace, "error", err)
		}
	}

	deadline := time.Now().Add(startMaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && r.cfg.AutoRegister {
			_ = temporalx.EnsureNamespace(ctx, r.log, r.cfg)
		}
		if time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, startErr)
			}
			return startErr
		}
		r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		time.Sleep(temporalx.Backoff(startBackoff, startBackoffMax, attempt))
	}
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := r.cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})
	acts := &evidenceflow.Activities{Log: r.log, Pipeline: r.pipeline, Notifier: r.notifier}
	w.RegisterWorkflowWithOptions(evidenceflow.Workflow, workflow.RegisterOptions{Name: evidenceflow.WorkflowName})
	w.RegisterActivityWithOptions(acts.Process, activity.RegisterOptions{Name: evidenceflow.ActivityProcess})
	w.RegisterActivityWithOptions(acts.Notify, activity.RegisterOptions{Name: evidenceflow.ActivityNotify})
	return w
}
