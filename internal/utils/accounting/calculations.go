package accounting

import (
	"fmt"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultDayCount is the actual/365 fixed convention.
const DefaultDayCount = 365

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to two fractional digits, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(domain.MoneyScale)
}

// SimpleInterest computes balance * rate/100 * days / dayCount rounded to cents.
// A non-positive balance, rate or day count accrues nothing.
func SimpleInterest(balance, annualRatePercent decimal.Decimal, days, dayCount int) decimal.Decimal {
	if days <= 0 || dayCount <= 0 || !balance.IsPositive() || !annualRatePercent.IsPositive() {
		return decimal.Zero
	}
	numerator := balance.Mul(annualRatePercent).Mul(decimal.NewFromInt(int64(days)))
	return RoundMoney(numerator.Div(hundred.Mul(decimal.NewFromInt(int64(dayCount)))))
}

// MaturityAmount is principal + principal * rate/100 * tenure/12, rounded to cents.
func MaturityAmount(principal, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	interest := principal.Mul(annualRatePercent).Mul(decimal.NewFromInt(int64(tenureMonths))).Div(decimal.NewFromInt(1200))
	return RoundMoney(principal.Add(interest))
}

// PenaltyRate lowers a rate by penalty percentage points without going below zero.
func PenaltyRate(rate, penalty decimal.Decimal) decimal.Decimal {
	reduced := rate.Sub(penalty)
	if reduced.IsNegative() {
		return decimal.Zero
	}
	return reduced
}

// ValidateAmount checks an amount is positive and carries at most two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	if !amount.Equal(amount.Truncate(domain.MoneyScale)) {
		return fmt.Errorf("amount %s has more than %d decimal places", amount.String(), domain.MoneyScale)
	}
	return nil
}
