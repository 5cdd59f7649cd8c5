package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TenureRates maps a fixed deposit tenure in months to its annual percent rate.
type TenureRates map[int]decimal.Decimal

// DefaultTenureRates is used unless overridden by configuration.
var DefaultTenureRates = TenureRates{
	6:  decimal.RequireFromString("6.00"),
	12: decimal.RequireFromString("7.00"),
	24: decimal.RequireFromString("8.00"),
	36: decimal.RequireFromString("9.00"),
}

// RateFor returns the rate of an exact tenure.
func (r TenureRates) RateFor(tenureMonths int) (decimal.Decimal, bool) {
	rate, ok := r[tenureMonths]
	return rate, ok
}

// RateForElapsed returns the rate of the longest tenure not exceeding months.
func (r TenureRates) RateForElapsed(months int) (decimal.Decimal, bool) {
	best := -1
	for tenure := range r {
		if tenure <= months && tenure > best {
			best = tenure
		}
	}
	if best < 0 {
		return decimal.Zero, false
	}
	return r[best], true
}

// Tenures lists the configured tenures in ascending order.
func (r TenureRates) Tenures() []int {
	out := make([]int, 0, len(r))
	for tenure := range r {
		out = append(out, tenure)
	}
	sort.Ints(out)
	return out
}
