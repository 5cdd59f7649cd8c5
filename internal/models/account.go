package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	AccountNumber  string          `db:"account_number"`
	CustomerID     string          `db:"customer_id"`
	AccountType    string          `db:"account_type"`
	Balance        decimal.Decimal `db:"balance"`
	MinimumBalance decimal.Decimal `db:"minimum_balance"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	Status         string          `db:"status"`
	OpenedAt       time.Time       `db:"opened_at"`
	ClosedAt       *time.Time      `db:"closed_at"` // Nullable
	AuditFields
}
