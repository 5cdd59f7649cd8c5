package domain

import "github.com/shopspring/decimal"

// AccountPolicy captures the per-type rules the ledger enforces.
type AccountPolicy struct {
	MinimumBalance  decimal.Decimal `mapstructure:"minimum_balance"`
	AllowOverdraft  bool            `mapstructure:"allow_overdraft"`
	OverdraftLimit  decimal.Decimal `mapstructure:"overdraft_limit"`
	InterestBearing bool            `mapstructure:"interest_bearing"`
	DefaultRate     decimal.Decimal `mapstructure:"default_rate"` // annual percent
}

// AccountPolicies is a lookup table keyed by account type.
type AccountPolicies map[AccountType]AccountPolicy

// DefaultAccountPolicies is used unless overridden by configuration.
var DefaultAccountPolicies = AccountPolicies{
	AccountTypeSavings: {
		MinimumBalance:  decimal.NewFromInt(100),
		InterestBearing: true,
		DefaultRate:     decimal.RequireFromString("4.00"),
	},
	AccountTypeCurrent: {
		MinimumBalance: decimal.Zero,
		AllowOverdraft: true,
		OverdraftLimit: decimal.NewFromInt(1000),
	},
	AccountTypeFixedDeposit: {
		MinimumBalance: decimal.Zero,
	},
	AccountTypeBusiness: {
		MinimumBalance: decimal.NewFromInt(1000),
		AllowOverdraft: true,
		OverdraftLimit: decimal.NewFromInt(5000),
	},
}

// Lookup returns the policy for t, falling back to a zero-floor policy.
func (p AccountPolicies) Lookup(t AccountType) AccountPolicy {
	if policy, ok := p[t]; ok {
		return policy
	}
	return AccountPolicy{MinimumBalance: decimal.Zero}
}

// Floor is the lowest balance a debit may leave behind for the given account.
// Overdraft-capable types may go down to -OverdraftLimit, all others stop at the
// account's own minimum balance.
func (p AccountPolicy) Floor(account Account) decimal.Decimal {
	if p.AllowOverdraft {
		return p.OverdraftLimit.Neg()
	}
	return account.MinimumBalance
}
