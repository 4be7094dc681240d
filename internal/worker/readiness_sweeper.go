package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReadySweeper exposes the subset of application functionality required by the worker.
type ReadySweeper interface {
	SweepReady(ctx context.Context, limit int) (int, error)
}

// ReadinessSweeper periodically moves due orders to READY. Batches run
// serially on a single goroutine, so ticks never overlap.
type ReadinessSweeper struct {
	sweeper   ReadySweeper
	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReadinessSweeper constructs the sweeper.
func NewReadinessSweeper(sweeper ReadySweeper, interval time.Duration, batchSize int, logger *slog.Logger) *ReadinessSweeper {
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReadinessSweeper{
		sweeper:   sweeper,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start launches background sweeping. Calling Start twice is a no-op.
func (s *ReadinessSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop cancels the loop and waits for the current batch to finish.
func (s *ReadinessSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ReadinessSweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep drains every due order, one batch at a time.
func (s *ReadinessSweeper) sweep(ctx context.Context) {
	total := 0
	for ctx.Err() == nil {
		n, err := s.sweeper.SweepReady(ctx, s.batchSize)
		if err != nil {
			s.logger.Error("readiness sweep failed", slog.Any("error", err))
			return
		}
		total += n
		if n < s.batchSize {
			break
		}
	}
	if total > 0 {
		s.logger.Info("orders marked ready", slog.Int("count", total))
	}
}
