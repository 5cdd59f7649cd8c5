package domain_test

import (
	"testing"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.AccountStatus
		want     bool
	}{
		{domain.AccountStatusActive, domain.AccountStatusFrozen, true},
		{domain.AccountStatusFrozen, domain.AccountStatusActive, true},
		{domain.AccountStatusInactive, domain.AccountStatusClosed, true},
		{domain.AccountStatusClosed, domain.AccountStatusActive, false},
		{domain.AccountStatusFrozen, domain.AccountStatusInactive, false},
		{domain.AccountStatusActive, domain.AccountStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseAccountType(t *testing.T) {
	_, ok := domain.ParseAccountType("SAVINGS")
	assert.True(t, ok)
	_, ok = domain.ParseAccountType("CRYPTO")
	assert.False(t, ok)
}

func TestAccountPolicy_Floor(t *testing.T) {
	savings := domain.DefaultAccountPolicies.Lookup(domain.AccountTypeSavings)
	acct := domain.Account{MinimumBalance: decimal.NewFromInt(100)}
	assert.True(t, decimal.NewFromInt(100).Equal(savings.Floor(acct)))

	current := domain.DefaultAccountPolicies.Lookup(domain.AccountTypeCurrent)
	assert.True(t, decimal.NewFromInt(-1000).Equal(current.Floor(acct)))
}
