// Package scheduler runs the bulk yield calculation on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/wealthledger/internal/usecase"
)

// Run outcomes reported to the RunRecorder.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusUnsaved = "unsaved"
)

// YieldCalculator compounds every asset of the ledger.
type YieldCalculator interface {
	CalculateAllYields(ctx context.Context) *usecase.BulkYieldResult
}

// RunRecorder counts scheduled runs by outcome.
type RunRecorder interface {
	ScheduledRun(status string)
}

// Scheduler manages the recurring yield calculation.
type Scheduler struct {
	cron     *cron.Cron
	engine   YieldCalculator
	recorder RunRecorder
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler. recorder may be nil.
func NewScheduler(engine YieldCalculator, recorder RunRecorder, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		engine:   engine,
		recorder: recorder,
		timeout:  2 * time.Minute,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the calculation under schedule (standard 5-field cron) and starts the
// scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("invalid yield schedule %q: %w", schedule, err)
	}

	s.logger.Info().Str("schedule", schedule).Msg("starting scheduler")
	s.cron.Start()

	return nil
}

// Stop stops the scheduler and waits for a running calculation to finish.
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce performs one bulk calculation.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res := s.engine.CalculateAllYields(ctx)

	status := StatusOK
	switch {
	case res.Persist.Err != nil:
		status = StatusUnsaved
	case len(res.Failures) > 0:
		status = StatusPartial
	}

	if s.recorder != nil {
		s.recorder.ScheduledRun(status)
	}

	appended := 0
	for _, r := range res.Results {
		if r.Record != nil {
			appended++
		}
	}

	event := s.logger.Info()
	if status != StatusOK {
		event = s.logger.Warn()
	}
	event.
		Str("status", status).
		Int("calculated", len(res.Results)).
		Int("records_appended", appended).
		Int("failed", len(res.Failures)).
		Msg("scheduled yield calculation finished")
}
