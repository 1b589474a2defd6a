package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

var ErrBusClosed = errors.New("events: bus closed")

type memoryBus struct {
	log    *logger.Logger
	ch     chan Event
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMemoryBus is an in-process bus with a buffered queue. Publish blocks when the buffer is full.
func NewMemoryBus(log *logger.Logger, buffer int) Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &memoryBus{
		log: log.With("service", "MemoryEventBus"),
		ch:  make(chan Event, buffer),
	}
}

func (b *memoryBus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent Handler) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.RLock()
	closed := b.closed
	if !closed {
		b.wg.Add(1)
	}
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-b.ch:
				if !ok {
					return
				}
				onEvent(ctx, e)
			}
		}
	}()
	return nil
}

// Close stops accepting events and waits for forwarders to return. A forwarder whose
// context is still live delivers the rest of the queue before it returns; events left
// behind by cancelled forwarders are dropped and counted in the log.
func (b *memoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.ch)
	b.mu.Unlock()
	b.wg.Wait()

	dropped := 0
	for range b.ch {
		dropped++
	}
	if dropped > 0 {
		b.log.Warn("dropping queued events on close", "count", dropped)
	}
	return nil
}
