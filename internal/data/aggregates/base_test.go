package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	aggtest "github.com/yungbote/vibemix-backend/internal/data/aggregates/testutil"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

func fastBase(runner TxRunner, hooks Hooks) BaseDeps {
	return BaseDeps{
		Runner:       runner,
		Hooks:        hooks,
		RetryInitial: time.Millisecond,
		RetryMax:     2 * time.Millisecond,
	}
}

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{}

	err := executeWrite(context.Background(), fastBase(runner, hooks), "aggregate.test.success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != "success" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
	if runner.BeginCalls != 1 {
		t.Fatalf("begin calls: want=1 got=%d", runner.BeginCalls)
	}
}

func TestExecuteWriteConflictIsNotRetried(t *testing.T) {
	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{}

	err := executeWrite(context.Background(), fastBase(runner, hooks), "aggregate.test.conflict", func(_ dbctx.Context) error {
		return domainagg.NewError(domainagg.CodeConflict, "op", "already voted", domainagg.ErrDuplicateVote)
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) || !errors.Is(err, domainagg.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote conflict, got=%v", err)
	}
	if runner.BeginCalls != 1 {
		t.Fatalf("conflict must not retry: begin calls=%d", runner.BeginCalls)
	}
	if len(hooks.Conflicts) != 1 || len(hooks.Retries) != 0 {
		t.Fatalf("hooks: conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
	}
	if hooks.Operations[0].Status != string(domainagg.CodeConflict) {
		t.Fatalf("operation status: got=%s", hooks.Operations[0].Status)
	}
}

func TestExecuteWriteRetriesTransientFailures(t *testing.T) {
	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{FailFirst: 2, FailErr: errors.New("database is locked")}

	err := executeWrite(context.Background(), fastBase(runner, hooks), "aggregate.test.retry", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("expected success on third attempt, got=%v", err)
	}
	if runner.BeginCalls != 3 || runner.CommitCalls != 1 {
		t.Fatalf("begin=%d commit=%d", runner.BeginCalls, runner.CommitCalls)
	}
	if len(hooks.Retries) != 2 {
		t.Fatalf("retry hooks: want=2 got=%v", hooks.Retries)
	}
	if hooks.Operations[0].Status != "success" {
		t.Fatalf("operation status: got=%s", hooks.Operations[0].Status)
	}
}

func TestExecuteWriteGivesUpAfterMaxTries(t *testing.T) {
	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{FailFirst: 10, FailErr: RetryableError("serialization failure")}

	err := executeWrite(context.Background(), fastBase(runner, hooks), "aggregate.test.exhausted", func(_ dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable code, got=%v", err)
	}
	if runner.BeginCalls != DefaultMaxTries {
		t.Fatalf("begin calls: want=%d got=%d", DefaultMaxTries, runner.BeginCalls)
	}
	if runner.CommitCalls != 0 {
		t.Fatalf("nothing should commit, got=%d", runner.CommitCalls)
	}
	if len(hooks.Retries) != DefaultMaxTries-1 {
		t.Fatalf("retry hooks: got=%v", hooks.Retries)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(InvariantError("x")); got != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("invariant status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline status: got=%s", got)
	}
}
