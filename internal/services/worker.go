package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Worker runs a batch of indexed jobs on a bounded pool.
type Worker interface {
	Run(ctx context.Context, jobs int, process func(ctx context.Context, index int))
	Concurrency() int
}

type worker struct {
	concurrency int
	logger      *zap.Logger
}

func NewWorker(concurrency int, logger *zap.Logger) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &worker{
		concurrency: concurrency,
		logger:      logger,
	}
}

func (w *worker) Concurrency() int {
	return w.concurrency
}

// Run calls process once per index and blocks until all of them return.
// process owns its own failure handling; Run never stops early.
func (w *worker) Run(ctx context.Context, jobs int, process func(ctx context.Context, index int)) {
	if jobs <= 0 {
		return
	}

	w.logger.Debug("worker pool started",
		zap.Int("jobs", jobs),
		zap.Int("concurrency", w.concurrency),
	)

	if w.concurrency == 1 {
		for i := 0; i < jobs; i++ {
			process(ctx, i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(w.concurrency)
		for i := 0; i < jobs; i++ {
			g.Go(func() error {
				process(ctx, i)
				return nil
			})
		}
		_ = g.Wait()
	}

	w.logger.Debug("worker pool finished", zap.Int("jobs", jobs))
}
