package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const eventField = "event"

// RedisStreamConfig names the stream and consumer group the bus works on.
type RedisStreamConfig struct {
	Stream string
	Group  string
	// Consumer prefixes the per-forwarder consumer names inside the group.
	Consumer string
	MaxLen   int64
	Block    time.Duration
	// ClaimIdle is how long a delivered but unacknowledged entry waits before another forwarder claims it.
	ClaimIdle time.Duration
}

func (c RedisStreamConfig) withDefaults() RedisStreamConfig {
	if c.Stream == "" {
		c.Stream = "justicebot-events"
	}
	if c.Group == "" {
		c.Group = "evidence-consumers"
	}
	if c.Consumer == "" {
		host, _ := os.Hostname()
		if host == "" {
			host = "local"
		}
		c.Consumer = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	if c.MaxLen <= 0 {
		c.MaxLen = 10000
	}
	if c.Block <= 0 {
		c.Block = 2 * time.Second
	}
	if c.ClaimIdle <= 0 {
		c.ClaimIdle = 5 * time.Minute
	}
	return c
}

// redisBus is a work queue on a Redis stream. Every event is delivered to exactly one
// forwarder in the group and acknowledged once its handler returns.
type redisBus struct {
	log  *logger.Logger
	rdb  *goredis.Client
	cfg  RedisStreamConfig
	seq  atomic.Int64
	wg   sync.WaitGroup
	once sync.Once
}

// NewRedisBus connects using REDIS_ADDR and queues on the REDIS_STREAM stream (default "justicebot-events").
func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	bus, err := NewRedisBusWithClient(ctx, log, rdb, RedisStreamConfig{
		Stream:    envutil.String("REDIS_STREAM", ""),
		Group:     envutil.String("REDIS_CONSUMER_GROUP", ""),
		Consumer:  envutil.String("REDIS_CONSUMER_NAME", ""),
		MaxLen:    envutil.Int64("REDIS_STREAM_MAXLEN", 0),
		ClaimIdle: envutil.Seconds("REDIS_CLAIM_IDLE_SECONDS", 0),
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return bus, nil
}

// NewRedisBusWithClient creates the consumer group if it does not exist yet, so events
// published before any forwarder starts are kept for it.
func NewRedisBusWithClient(ctx context.Context, log *logger.Logger, rdb *goredis.Client, cfg RedisStreamConfig) (Bus, error) {
	cfg = cfg.withDefaults()
	err := rdb.XGroupCreateMkStream(ctx, cfg.Stream, cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("redis create group %s: %w", cfg.Group, err)
	}
	return &redisBus{
		log: log.With("service", "RedisEventBus", "stream", cfg.Stream, "group", cfg.Group),
		rdb: rdb,
		cfg: cfg,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, e Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: b.cfg.Stream,
		MaxLen: b.cfg.MaxLen,
		Approx: true,
		Values: map[string]any{eventField: string(raw)},
	}).Err()
}

// StartForwarder runs one group consumer. onEvent runs synchronously and the entry is
// acknowledged after it returns; call it several times for parallel handling.
func (b *redisBus) StartForwarder(ctx context.Context, onEvent Handler) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	consumer := fmt.Sprintf("%s-%d", b.cfg.Consumer, b.seq.Add(1))

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ctx.Err() == nil {
			msgs, err := b.read(ctx, consumer)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, goredis.ErrClosed) {
					return
				}
				b.log.Warn("redis stream read failed", "consumer", consumer, "error", err)
				if sleepErr := sleepCtx(ctx, time.Second); sleepErr != nil {
					return
				}
				continue
			}
			for _, m := range msgs {
				b.deliver(ctx, m, onEvent)
			}
		}
	}()
	return nil
}

// read returns new entries for consumer, or stale pending ones from dead consumers when
// nothing new arrives within the block interval.
func (b *redisBus) read(ctx context.Context, consumer string) ([]goredis.XMessage, error) {
	streams, err := b.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    b.cfg.Group,
		Consumer: consumer,
		Streams:  []string{b.cfg.Stream, ">"},
		Count:    1,
		Block:    b.cfg.Block,
	}).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}
	var msgs []goredis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	if len(msgs) > 0 {
		return msgs, nil
	}
	claimed, _, err := b.rdb.XAutoClaim(ctx, &goredis.XAutoClaimArgs{
		Stream:   b.cfg.Stream,
		Group:    b.cfg.Group,
		Consumer: consumer,
		MinIdle:  b.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}
	return claimed, nil
}

func (b *redisBus) deliver(ctx context.Context, m goredis.XMessage, onEvent Handler) {
	raw, _ := m.Values[eventField].(string)
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		b.log.Warn("bad redis event payload", "entry_id", m.ID, "error", err)
	} else {
		onEvent(ctx, e)
	}
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := b.rdb.XAck(ackCtx, b.cfg.Stream, b.cfg.Group, m.ID).Err(); err != nil {
		b.log.Warn("redis ack failed", "entry_id", m.ID, "error", err)
	}
}

// Close waits for forwarders to finish their current read, then closes the client.
// Cancel the forwarder contexts first or Close blocks until they are.
func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	var err error
	b.once.Do(func() {
		b.wg.Wait()
		err = b.rdb.Close()
	})
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
