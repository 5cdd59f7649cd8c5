package dto

import (
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens an account for the customer in the path.
type CreateAccountRequest struct {
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=SAVINGS CURRENT FIXED_DEPOSIT BUSINESS"`
}

// UpdateAccountStatusRequest moves an account to a new lifecycle state.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE CLOSED FROZEN"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	AccountNumber  string               `json:"accountNumber"`
	CustomerID     string               `json:"customerID"`
	AccountType    domain.AccountType   `json:"accountType"`
	Balance        decimal.Decimal      `json:"balance"`
	MinimumBalance decimal.Decimal      `json:"minimumBalance"`
	InterestRate   decimal.Decimal      `json:"interestRate"`
	Status         domain.AccountStatus `json:"status"`
	OpenedAt       time.Time            `json:"openedAt"`
	ClosedAt       *time.Time           `json:"closedAt,omitempty"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
	Version        int64                `json:"version"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		AccountNumber:  acc.AccountNumber,
		CustomerID:     acc.CustomerID,
		AccountType:    acc.AccountType,
		Balance:        acc.Balance,
		MinimumBalance: acc.MinimumBalance,
		InterestRate:   acc.InterestRate,
		Status:         acc.Status,
		OpenedAt:       acc.OpenedAt,
		ClosedAt:       acc.ClosedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
		Version:        acc.Version,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}
