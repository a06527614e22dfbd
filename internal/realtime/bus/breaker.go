package bus

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const (
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 10 * time.Second
	breakerInterval         = 30 * time.Second
)

// ErrBusUnavailable is returned while the publish breaker is open.
var ErrBusUnavailable = errors.New("event bus unavailable")

// publishGuard stops calling the broker after consecutive publish failures
// and lets one trial request through once the open timeout passes.
type publishGuard struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func newPublishGuard(name string, openTimeout time.Duration, log *logger.Logger) *publishGuard {
	if openTimeout <= 0 {
		openTimeout = breakerOpenTimeout
	}
	return &publishGuard{cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("event bus breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	})}
}

func (g *publishGuard) run(fn func() error) error {
	_, err := g.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrBusUnavailable
	}
	return err
}
