package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInterestPoster struct {
	mock.Mock
}

func (m *mockInterestPoster) PostSavingsInterest(ctx context.Context, accountID string, period domain.Period, actor string) (*domain.InterestPosting, error) {
	args := m.Called(ctx, accountID, period, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestPosting), args.Error(1)
}

func (m *mockInterestPoster) RunSavingsAccrual(ctx context.Context, period domain.Period, actor string) (*domain.SweepSummary, error) {
	args := m.Called(ctx, period, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}

func (m *mockInterestPoster) MatureFixedDeposit(ctx context.Context, fixedDepositID, actor string) (*domain.FixedDeposit, error) {
	args := m.Called(ctx, fixedDepositID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedDeposit), args.Error(1)
}

func (m *mockInterestPoster) RunMaturitySweep(ctx context.Context, asOf time.Time, actor string) (*domain.SweepSummary, error) {
	args := m.Called(ctx, asOf, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:          true,
		SavingsSchedule:  "30 0 1 * *",
		MaturitySchedule: "15 0 * * *",
		Actor:            "system:test",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewInterestScheduler_RegistersBothJobs(t *testing.T) {
	s, err := NewInterestScheduler(new(mockInterestPoster), testSchedulerConfig(), discardLogger(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())
}

func TestNewInterestScheduler_RejectsBadSpec(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.MaturitySchedule = "every day at noon"

	_, err := NewInterestScheduler(new(mockInterestPoster), cfg, discardLogger(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maturity")
}

func TestRunSavingsAccrual_UsesPreviousMonth(t *testing.T) {
	poster := new(mockInterestPoster)
	now := time.Date(2026, time.March, 1, 0, 30, 0, 0, time.UTC)
	want := domain.Period{
		Start: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	poster.On("RunSavingsAccrual", mock.Anything, want, "system:test").
		Return(&domain.SweepSummary{Processed: 2, Posted: 2, TotalInterest: decimal.RequireFromString("12.50")}, nil).Once()

	s, err := NewInterestScheduler(poster, testSchedulerConfig(), discardLogger(), fixedClock(now))
	require.NoError(t, err)
	s.RunSavingsAccrual()

	poster.AssertExpectations(t)
}

func TestRunMaturitySweep_PassesClockAndSurvivesErrors(t *testing.T) {
	poster := new(mockInterestPoster)
	now := time.Date(2026, time.July, 2, 0, 15, 0, 0, time.UTC)
	poster.On("RunMaturitySweep", mock.Anything, now, "system:test").
		Return(nil, errors.New("store unavailable")).Once()

	s, err := NewInterestScheduler(poster, testSchedulerConfig(), discardLogger(), fixedClock(now))
	require.NoError(t, err)
	assert.NotPanics(t, s.RunMaturitySweep)

	poster.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s, err := NewInterestScheduler(new(mockInterestPoster), testSchedulerConfig(), discardLogger(), nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
