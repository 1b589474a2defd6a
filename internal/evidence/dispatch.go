package evidence

import (
	"context"
	"fmt"
	"sync"

	"github.com/justicebot/justicebot-backend/internal/events"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

// Submitter hands a finalize event to whatever runs the pipeline for it.
type Submitter interface {
	Submit(ctx context.Context, ev ObjectFinalized) error
}

type Processor interface {
	Process(ctx context.Context, ev ObjectFinalized) (Outcome, error)
}

type CreatedNotifier interface {
	NotifyCreated(ctx context.Context, ev AnalysisCreated) error
}

// InlineSubmitter runs the pipeline in the caller and notifies directly after a created record.
// Pipeline failures are logged and not returned.
type InlineSubmitter struct {
	log      *logger.Logger
	pipeline Processor
	notifier CreatedNotifier
}

func NewInlineSubmitter(baseLog *logger.Logger, pipeline Processor, notifier CreatedNotifier) *InlineSubmitter {
	return &InlineSubmitter{
		log:      baseLog.With("service", "InlineEvidenceSubmitter"),
		pipeline: pipeline,
		notifier: notifier,
	}
}

func (s *InlineSubmitter) Submit(ctx context.Context, ev ObjectFinalized) error {
	out, err := s.pipeline.Process(ctx, ev)
	if err != nil {
		s.log.Warn("evidence pipeline failed", "object", ev.Name, "error", err)
		return nil
	}
	if created, ok := out.CreatedEvent(); ok {
		if err := s.notifier.NotifyCreated(ctx, created); err != nil {
			s.log.Warn("notify failed", "document_id", created.DocumentID, "error", err)
		}
	}
	return nil
}

// BusSubmitter publishes finalize events for a Consumer to pick up.
type BusSubmitter struct {
	bus events.Bus
}

func NewBusSubmitter(bus events.Bus) *BusSubmitter {
	return &BusSubmitter{bus: bus}
}

func (s *BusSubmitter) Submit(ctx context.Context, ev ObjectFinalized) error {
	e, err := events.New(events.KindObjectFinalized, ev)
	if err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		return fmt.Errorf("publish finalize event: %w", err)
	}
	return nil
}

// DefaultConsumerWorkers is the number of forwarders a Consumer starts when none is given.
const DefaultConsumerWorkers = 4

// Consumer runs the pipeline for finalize events and the notifier for created events
// arriving on a bus. Each worker handles one event at a time.
type Consumer struct {
	log      *logger.Logger
	bus      events.Bus
	pipeline Processor
	notifier CreatedNotifier
	workers  int
	wg       sync.WaitGroup
}

func NewConsumer(baseLog *logger.Logger, bus events.Bus, pipeline Processor, notifier CreatedNotifier, workers int) *Consumer {
	if workers <= 0 {
		workers = DefaultConsumerWorkers
	}
	return &Consumer{
		log:      baseLog.With("service", "EvidenceConsumer"),
		bus:      bus,
		pipeline: pipeline,
		notifier: notifier,
		workers:  workers,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	for i := 0; i < c.workers; i++ {
		err := c.bus.StartForwarder(ctx, func(ctx context.Context, e events.Event) {
			c.wg.Add(1)
			defer c.wg.Done()
			c.handle(context.WithoutCancel(ctx), e)
		})
		if err != nil {
			return fmt.Errorf("start forwarder %d: %w", i, err)
		}
	}
	return nil
}

// Wait blocks until every in-flight handler has returned.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) handle(ctx context.Context, e events.Event) {
	log := c.log.With("event_id", e.ID, "kind", string(e.Kind))
	switch e.Kind {
	case events.KindObjectFinalized:
		var ev ObjectFinalized
		if err := e.Decode(&ev); err != nil {
			log.Warn("bad finalize event", "error", err)
			return
		}
		out, err := c.pipeline.Process(ctx, ev)
		if err != nil {
			log.Warn("evidence pipeline failed", "object", ev.Name, "error", err)
			return
		}
		created, ok := out.CreatedEvent()
		if !ok {
			return
		}
		ce, err := events.New(events.KindAnalysisCreated, created)
		if err == nil {
			err = c.bus.Publish(ctx, ce)
		}
		if err != nil {
			log.Warn("publish created event failed", "document_id", created.DocumentID, "error", err)
		}
	case events.KindAnalysisCreated:
		var ev AnalysisCreated
		if err := e.Decode(&ev); err != nil {
			log.Warn("bad created event", "error", err)
			return
		}
		if err := c.notifier.NotifyCreated(ctx, ev); err != nil {
			log.Warn("notify failed", "document_id", ev.DocumentID, "error", err)
		}
	default:
		log.Debug("ignoring event")
	}
}
