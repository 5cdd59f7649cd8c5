package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MaxAnnualRate bounds configured rates, in annual percent.
var MaxAnnualRate = decimal.NewFromInt(50)

// InterestRateBand is the savings rate for one account type and balance range.
// Both bounds are inclusive; a nil bound is open.
type InterestRateBand struct {
	AccountType AccountType
	MinBalance  *decimal.Decimal
	MaxBalance  *decimal.Decimal
	Rate        decimal.Decimal // annual percent
}

// Contains reports whether balance falls inside the band.
func (b InterestRateBand) Contains(balance decimal.Decimal) bool {
	if b.MinBalance != nil && balance.LessThan(*b.MinBalance) {
		return false
	}
	if b.MaxBalance != nil && balance.GreaterThan(*b.MaxBalance) {
		return false
	}
	return true
}

// startsBelow orders bands by minimum balance, open minimums first.
func (b InterestRateBand) startsBelow(other InterestRateBand) bool {
	switch {
	case other.MinBalance == nil:
		return false
	case b.MinBalance == nil:
		return true
	default:
		return b.MinBalance.LessThan(*other.MinBalance)
	}
}

// InterestRateTable holds the balance-banded savings rates. Accounts of a type
// with no matching band keep the rate they were opened with.
type InterestRateTable []InterestRateBand

// RateFor picks the band containing balance. When bands overlap the one with
// the highest minimum balance wins.
func (t InterestRateTable) RateFor(accountType AccountType, balance decimal.Decimal) (decimal.Decimal, bool) {
	var best *InterestRateBand
	for i := range t {
		band := &t[i]
		if band.AccountType != accountType || !band.Contains(balance) {
			continue
		}
		if best == nil || best.startsBelow(*band) {
			best = band
		}
	}
	if best == nil {
		return decimal.Zero, false
	}
	return best.Rate, true
}

// ForType returns the bands of one account type ordered by minimum balance.
func (t InterestRateTable) ForType(accountType AccountType) []InterestRateBand {
	var out []InterestRateBand
	for _, band := range t {
		if band.AccountType == accountType {
			out = append(out, band)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].startsBelow(out[j]) })
	return out
}

// Validate rejects rates outside [0, MaxAnnualRate] and inverted ranges.
func (t InterestRateTable) Validate() error {
	for i, band := range t {
		if _, ok := ParseAccountType(string(band.AccountType)); !ok {
			return fmt.Errorf("interest rate %d: invalid account type %q", i, band.AccountType)
		}
		if band.Rate.IsNegative() || band.Rate.GreaterThan(MaxAnnualRate) {
			return fmt.Errorf("interest rate %d: rate %s outside 0..%s", i, band.Rate.StringFixed(2), MaxAnnualRate.String())
		}
		if band.MinBalance != nil && band.MaxBalance != nil && band.MinBalance.GreaterThan(*band.MaxBalance) {
			return fmt.Errorf("interest rate %d: min balance above max balance", i)
		}
	}
	return nil
}
