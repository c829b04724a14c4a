package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"AfriQuoteFeed/internal/ingest"
	"AfriQuoteFeed/internal/model"
)

// BatchRunner runs one full ingestion.
type BatchRunner interface {
	FetchAll(ctx context.Context) (*model.FetchResult, *ingest.Report)
}

// Notifier receives a summary after each scheduled run.
type Notifier interface {
	Notify(ctx context.Context, sum ingest.Summary, report *ingest.Report) error
}

// Scheduler triggers batch runs on a cron expression.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   BatchRunner
	Notifier Notifier // optional
	Ctx      context.Context

	mu sync.Mutex // one batch at a time
	wg sync.WaitGroup
}

// NewScheduler creates a new Scheduler using 6-field cron expressions (with seconds).
func NewScheduler(ctx context.Context, runner BatchRunner, n Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register schedules the batch task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.batchTask); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for cron jobs and RunAsync batches to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the batch task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.batchTask()
}

// RunAsync starts the batch task in the background (run on start).
// Stop waits for it, so a canceled run still persists its partial result.
func (s *Scheduler) RunAsync() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.batchTask()
	}()
}

func (s *Scheduler) batchTask() {
	if !s.mu.TryLock() {
		log.Warn().Msg("previous batch still running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	if s.Ctx.Err() != nil {
		return
	}
	log.Info().Msg("running scheduled batch")
	res, report := s.Runner.FetchAll(s.Ctx)
	sum := ingest.Summarize(res, report)
	log.Info().
		Int("fetched", sum.Fetched).
		Int("failed", sum.Failed).
		Int("gainers", sum.Gainers).
		Int("losers", sum.Losers).
		Msg("scheduled batch done")

	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, sum, report); err != nil {
		log.Error().Err(err).Msg("run summary not delivered")
	}
}
