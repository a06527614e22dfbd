package bus

import (
	"context"
	"strings"

	"github.com/yungbote/vibemix-backend/internal/platform/logger"
	"github.com/yungbote/vibemix-backend/internal/realtime"
)

// Bus publishes committed tag events. Subscribers live outside this service
// and read the Redis channel directly.
type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	Close() error
}

type Config struct {
	RedisAddr    string
	RedisChannel string
}

// New returns the Redis bus when an address is configured and the log-only
// bus otherwise.
func New(cfg Config, log *logger.Logger) (Bus, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return NewLocalBus(log), nil
	}
	return NewRedisBus(cfg, log)
}
