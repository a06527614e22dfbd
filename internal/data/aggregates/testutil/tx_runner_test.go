package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("err=%v called=%v", err, called)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailFirst(t *testing.T) {
	transient := errors.New("database is locked")
	r := &InjectedTxRunner{FailFirst: 1, FailErr: transient}
	body := 0
	fn := func(_ dbctx.Context) error {
		body++
		return nil
	}
	if err := r.InTx(context.Background(), fn); !errors.Is(err, transient) {
		t.Fatalf("first attempt: expected injected error, got %v", err)
	}
	if err := r.InTx(context.Background(), fn); err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if body != 1 || r.RollbackCalls != 1 || r.CommitCalls != 1 {
		t.Fatalf("body=%d rollback=%d commit=%d", body, r.RollbackCalls, r.CommitCalls)
	}
}

func TestInjectedTxRunnerFailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil })
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}

func TestHooksRecorderCapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("agg.op", "success", 10*time.Millisecond)
	h.ObserveOperation("agg.other", "conflict", time.Millisecond)
	h.IncConflict("agg.other")
	h.IncRetry("agg.op")

	if got := h.Statuses("agg.op"); len(got) != 1 || got[0] != "success" {
		t.Fatalf("Statuses(agg.op)=%v", got)
	}
	if h.ConflictsFor("agg.other") != 1 || h.RetriesFor("agg.op") != 1 || h.RetriesFor("agg.other") != 0 {
		t.Fatalf("conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
	last, ok := h.Last("agg.other")
	if !ok || last.Status != "conflict" {
		t.Fatalf("Last(agg.other)=%+v ok=%v", last, ok)
	}
	h.Reset()
	if _, ok := h.Last("agg.op"); ok || len(h.Retries) != 0 {
		t.Fatalf("reset left state: %+v", h)
	}
}
