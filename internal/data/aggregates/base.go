package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const (
	DefaultMaxTries     = 3
	DefaultRetryInitial = 25 * time.Millisecond
	DefaultRetryMax     = 250 * time.Millisecond
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
	Clock  clock.Clock

	// MaxTries bounds how often a transaction that failed with a retryable
	// store error is run again. The failed attempt was rolled back, so a
	// retry never applies a change twice.
	MaxTries     int
	RetryInitial time.Duration
	RetryMax     time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.MaxTries <= 0 {
		d.MaxTries = DefaultMaxTries
	}
	if d.RetryInitial <= 0 {
		d.RetryInitial = DefaultRetryInitial
	}
	if d.RetryMax <= 0 {
		d.RetryMax = DefaultRetryMax
	}
	return d
}

func (d BaseDeps) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.RetryInitial
	b.MaxInterval = d.RetryMax
	return b
}

// executeWrite runs fn in a fresh transaction, retrying the whole transaction
// on retryable failures, and reports the outcome to the hooks.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		mapped := MapError(op, deps.Runner.InTx(ctx, fn))
		if mapped == nil {
			return struct{}{}, nil
		}
		if !domainagg.IsCode(mapped, domainagg.CodeRetryable) || ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(mapped)
		}
		if attempt < deps.MaxTries {
			deps.Hooks.IncRetry(op)
			deps.Log.Warn("aggregate write retrying", "op", op, "attempt", attempt, "error", mapped)
		}
		return struct{}{}, mapped
	}, backoff.WithBackOff(deps.newBackOff()), backoff.WithMaxTries(uint(deps.MaxTries)))
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
