// Package scheduler triggers ingestion passes on startup and on a fixed
// interval.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"technews/app/pipeline"
)

type PassRunner interface {
	Run(ctx context.Context) pipeline.Summary
}

// Scheduler runs passes from a single goroutine, which guarantees at most
// one pass in flight: concurrent passes would race on upserts for the same
// link and defeat the pipeline's pacing.
type Scheduler struct {
	runner   PassRunner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(runner PassRunner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the scheduling loop. An initial pass runs immediately so
// the store is populated on service startup.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runPass()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runPass()
			}
		}
	}()
}

// Stop cancels the in-flight pass, if any, and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runPass() {
	slog.Info("Ingestion pass started")

	summary := s.runner.Run(s.ctx)

	slog.Info("Ingestion pass completed",
		"feeds", summary.Feeds,
		"feed_errors", summary.FeedErrors,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"duration", summary.Duration)
}
