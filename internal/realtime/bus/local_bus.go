package bus

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yungbote/vibemix-backend/internal/platform/logger"
	"github.com/yungbote/vibemix-backend/internal/realtime"
)

// localBus only logs. Used when no Redis is configured and in tests.
type localBus struct {
	log       *logger.Logger
	published atomic.Int64
	closed    atomic.Bool
}

func NewLocalBus(log *logger.Logger) Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &localBus{log: log.With("service", "LocalEventBus")}
}

func (b *localBus) Publish(ctx context.Context, ev realtime.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.closed.Load() {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	n := b.published.Add(1)
	b.log.Debug("event published", "event", ev.Name, "channel", ev.Channel, "at", ev.At, "seq", n)
	return nil
}

func (b *localBus) Close() error {
	b.closed.Store(true)
	return nil
}
