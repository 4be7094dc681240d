package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	testhelpers "github.com/polkiloo/gopherdine/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewReadinessSweeperDefaults(t *testing.T) {
	s := NewReadinessSweeper(&testhelpers.SweeperStub{}, 0, 0, testLogger())
	if s.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", s.batchSize)
	}
	if s.interval != time.Minute {
		t.Fatalf("expected interval default to 1m, got %s", s.interval)
	}
}

func TestReadinessSweeperDrainsBatches(t *testing.T) {
	remaining := int32(7)
	stub := &testhelpers.SweeperStub{SweepFn: func(_ context.Context, limit int) (int, error) {
		left := atomic.LoadInt32(&remaining)
		n := min(int(left), limit)
		atomic.AddInt32(&remaining, -int32(n))
		return n, nil
	}}

	s := NewReadinessSweeper(stub, 5*time.Millisecond, 3, testLogger())
	s.sweep(context.Background())

	if got := atomic.LoadInt32(&remaining); got != 0 {
		t.Fatalf("expected all orders swept, %d left", got)
	}
	calls := stub.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(calls))
	}
	for _, limit := range calls {
		if limit != 3 {
			t.Fatalf("unexpected batch limit %d", limit)
		}
	}
}

func TestReadinessSweeperStopsBatchOnError(t *testing.T) {
	stub := &testhelpers.SweeperStub{SweepFn: func(context.Context, int) (int, error) {
		return 0, errors.New("db down")
	}}

	s := NewReadinessSweeper(stub, time.Millisecond, 2, testLogger())
	s.sweep(context.Background())

	if calls := stub.Calls(); len(calls) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(calls))
	}
}

func TestReadinessSweeperRunsOnTicker(t *testing.T) {
	stub := &testhelpers.SweeperStub{}
	s := NewReadinessSweeper(stub, 5*time.Millisecond, 10, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Start(ctx)

	deadline := time.After(time.Second)
	for len(stub.Calls()) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for sweeps")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	after := len(stub.Calls())
	time.Sleep(20 * time.Millisecond)
	if len(stub.Calls()) != after {
		t.Fatal("sweeper kept running after Stop")
	}
	s.Stop()
}
