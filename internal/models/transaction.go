package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID             string          `db:"transaction_id"`
	Reference                 string          `db:"reference"`
	AccountID                 string          `db:"account_id"`
	TransactionType           string          `db:"transaction_type"`
	Amount                    decimal.Decimal `db:"amount"`
	BalanceAfter              decimal.Decimal `db:"balance_after"`
	Mode                      string          `db:"mode"`
	Description               string          `db:"description"`
	CounterpartyAccountID     *string         `db:"counterparty_account_id"` // Nullable
	CounterpartyAccountNumber *string         `db:"counterparty_account_number"`
	Status                    string          `db:"status"`
	CreatedBy                 string          `db:"created_by"`
	TransactionDate           time.Time       `db:"transaction_date"`
}
