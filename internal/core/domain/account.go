package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product category of a customer account.
type AccountType string

const (
	AccountTypeSavings      AccountType = "SAVINGS"
	AccountTypeCurrent      AccountType = "CURRENT"
	AccountTypeFixedDeposit AccountType = "FIXED_DEPOSIT"
	AccountTypeBusiness     AccountType = "BUSINESS"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusClosed   AccountStatus = "CLOSED"
	AccountStatusFrozen   AccountStatus = "FROZEN"
)

// Account is a customer ledger account. Balance is only ever changed by the
// transaction processor while the account's lock is held.
type Account struct {
	AccountID      string          `json:"accountID"`
	AccountNumber  string          `json:"accountNumber"` // 10 digits, unique
	CustomerID     string          `json:"customerID"`
	AccountType    AccountType     `json:"accountType"`
	Balance        decimal.Decimal `json:"balance"`
	MinimumBalance decimal.Decimal `json:"minimumBalance"`
	InterestRate   decimal.Decimal `json:"interestRate"` // annual percent
	Status         AccountStatus   `json:"status"`
	OpenedAt       time.Time       `json:"openedAt"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}

// IsActive reports whether the account accepts debits and credits.
func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// ParseAccountType validates a raw account type string.
func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(s)
	_, ok := DefaultAccountPolicies[t]
	return t, ok
}

var accountStatusTransitions = map[AccountStatus][]AccountStatus{
	AccountStatusActive:   {AccountStatusFrozen, AccountStatusInactive, AccountStatusClosed},
	AccountStatusFrozen:   {AccountStatusActive, AccountStatusClosed},
	AccountStatusInactive: {AccountStatusActive, AccountStatusClosed},
	AccountStatusClosed:   nil,
}

// CanTransitionTo reports whether the status change is allowed. CLOSED is terminal.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	for _, allowed := range accountStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	_, ok := accountStatusTransitions[s]
	return ok
}
