// Package jobs runs the periodic interest work: the monthly savings accrual
// and the daily fixed deposit maturity sweep.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/SscSPs/core_banking_ledger/internal/platform/config"
	"github.com/robfig/cron/v3"
)

// InterestScheduler triggers interest sweeps on cron schedules. A run that is
// still going when its next tick fires is skipped.
type InterestScheduler struct {
	cron     *cron.Cron
	interest portssvc.InterestPoster
	actor    string
	clock    func() time.Time
	logger   *slog.Logger
}

// NewInterestScheduler registers both sweeps. It fails on an invalid cron spec.
func NewInterestScheduler(interest portssvc.InterestPoster, cfg config.SchedulerConfig, logger *slog.Logger, clock func() time.Time) (*InterestScheduler, error) {
	if clock == nil {
		clock = time.Now
	}
	cl := cronLogger{logger: logger.With(slog.String("component", "scheduler"))}
	s := &InterestScheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		interest: interest,
		actor:    cfg.Actor,
		clock:    clock,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(cfg.SavingsSchedule, s.RunSavingsAccrual); err != nil {
		return nil, fmt.Errorf("invalid savings sweep schedule %q: %w", cfg.SavingsSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.MaturitySchedule, s.RunMaturitySweep); err != nil {
		return nil, fmt.Errorf("invalid maturity sweep schedule %q: %w", cfg.MaturitySchedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *InterestScheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("Scheduled interest job", slog.Int("entry_id", int(e.ID)), slog.Time("next_run", e.Next))
	}
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *InterestScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries reports how many jobs are registered.
func (s *InterestScheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunSavingsAccrual posts interest for the calendar month before now.
func (s *InterestScheduler) RunSavingsAccrual() {
	period := domain.PreviousMonthPeriod(s.clock())
	logger := s.logger.With(slog.String("job", "savings_accrual"), slog.String("period", period.Key()))
	ctx := middleware.WithLogger(context.Background(), logger)

	summary, err := s.interest.RunSavingsAccrual(ctx, period, s.actor)
	if err != nil {
		logger.Error("Savings accrual failed", slog.String("error", err.Error()))
		return
	}
	logSummary(logger, "Savings accrual finished", summary)
}

// RunMaturitySweep matures every deposit due by now.
func (s *InterestScheduler) RunMaturitySweep() {
	asOf := s.clock().UTC()
	logger := s.logger.With(slog.String("job", "maturity_sweep"))
	ctx := middleware.WithLogger(context.Background(), logger)

	summary, err := s.interest.RunMaturitySweep(ctx, asOf, s.actor)
	if err != nil {
		logger.Error("Maturity sweep failed", slog.String("error", err.Error()))
		return
	}
	logSummary(logger, "Maturity sweep finished", summary)
}

func logSummary(logger *slog.Logger, msg string, summary *domain.SweepSummary) {
	level := slog.LevelInfo
	if summary.Failed > 0 {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, msg,
		slog.Int("processed", summary.Processed),
		slog.Int("posted", summary.Posted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.String("total_interest", summary.TotalInterest.StringFixed(2)),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}
