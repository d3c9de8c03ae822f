// Package scheduler runs monitoring cycles on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/wildfire-guardian/internal/monitor"
)

// Sweeper runs a single monitoring cycle.
type Sweeper interface {
	Sweep(ctx context.Context) (monitor.CycleReport, error)
}

// Scheduler triggers Sweep on a cron schedule. A tick that fires while the
// previous cycle is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  *slog.Logger
}

// New parses spec (standard five-field cron or a descriptor such as
// "@every 15m") in loc and registers the sweep job. Each cycle runs under
// its own timeout context.
func New(spec string, loc *time.Location, timeout time.Duration, sweeper Sweeper, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper: sweeper,
		timeout: timeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule monitor sweep %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled cycles in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "next_run", s.NextRun())
}

// Stop prevents new cycles and waits for a running one to finish or for ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// NextRun reports when the sweep job fires next. It is zero before Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce runs a single cycle with the configured timeout.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		if errors.Is(err, monitor.ErrCycleInProgress) {
			s.logger.Info("skipping scheduled sweep", "reason", err)
			return
		}
		s.logger.Error("scheduled sweep failed", "error", err)
	}
}
