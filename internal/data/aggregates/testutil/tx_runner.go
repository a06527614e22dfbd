package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs the body without a database and lets tests inject
// failures at begin, before the body, or at commit.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin  error
	FailCommit error

	// FailFirst makes the first N attempts fail with FailErr before the body runs.
	FailFirst int
	FailErr   error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	var injected error
	if r.FailFirst > 0 && r.BeginCalls <= r.FailFirst {
		injected = r.FailErr
	}
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if injected != nil {
		r.rollback()
		return injected
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.rollback()
			return err
		}
	}
	if failCommit != nil {
		r.rollback()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}
