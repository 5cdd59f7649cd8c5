package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthPeriod(t *testing.T) {
	p := domain.MonthPeriod(time.Date(2026, time.September, 17, 13, 4, 0, 0, time.UTC))
	assert.Equal(t, date(2026, time.September, 1), p.Start)
	assert.Equal(t, date(2026, time.October, 1), p.End)
	assert.Equal(t, "2026-09-01/2026-10-01", p.Key())
	assert.Equal(t, 30, p.Days())

	prev := domain.PreviousMonthPeriod(date(2026, time.January, 10))
	assert.Equal(t, "2025-12-01/2026-01-01", prev.Key())
}

func TestNewPeriod(t *testing.T) {
	_, err := domain.NewPeriod(date(2026, 3, 1), date(2026, 3, 1))
	assert.Error(t, err)

	p, err := domain.NewPeriod(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), date(2026, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, 30, p.Days())
}

func TestPeriod_Overlaps(t *testing.T) {
	march := domain.MonthPeriod(date(2026, 3, 5))
	april := domain.MonthPeriod(date(2026, 4, 5))
	midMarch, _ := domain.NewPeriod(date(2026, 3, 15), date(2026, 4, 15))

	assert.False(t, march.Overlaps(april))
	assert.True(t, march.Overlaps(midMarch))
	assert.True(t, midMarch.Overlaps(april))
}

func TestPeriod_ClampStart(t *testing.T) {
	march := domain.MonthPeriod(date(2026, 3, 5))
	clamped := march.ClampStart(date(2026, 3, 21))
	assert.Equal(t, 11, clamped.Days())
	assert.Equal(t, march, march.ClampStart(date(2025, 1, 1)))
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, date(2026, 2, 28), domain.AddMonths(date(2026, 1, 31), 1))
	assert.Equal(t, date(2028, 2, 29), domain.AddMonths(date(2028, 1, 31), 1))
	assert.Equal(t, date(2027, 2, 28), domain.AddMonths(date(2027, 3, 31), -1))
	assert.Equal(t, date(2027, 6, 15), domain.AddMonths(date(2026, 6, 15), 12))
}

func TestWholeMonthsBetween(t *testing.T) {
	assert.Equal(t, 1, domain.WholeMonthsBetween(date(2026, 1, 15), date(2026, 3, 14)))
	assert.Equal(t, 2, domain.WholeMonthsBetween(date(2026, 1, 15), date(2026, 3, 15)))
	assert.Equal(t, 0, domain.WholeMonthsBetween(date(2026, 3, 15), date(2026, 3, 1)))
}

func TestTenureRates(t *testing.T) {
	rate, ok := domain.DefaultTenureRates.RateFor(12)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("7.00").Equal(rate))

	_, ok = domain.DefaultTenureRates.RateFor(7)
	assert.False(t, ok)

	rate, ok = domain.DefaultTenureRates.RateForElapsed(20)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("7.00").Equal(rate))

	_, ok = domain.DefaultTenureRates.RateForElapsed(3)
	assert.False(t, ok)

	assert.Equal(t, []int{6, 12, 24, 36}, domain.DefaultTenureRates.Tenures())
}
