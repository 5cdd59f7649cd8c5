package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedDeposit is the row shape of the fixed_deposits table.
type FixedDeposit struct {
	FixedDepositID       string           `db:"fixed_deposit_id"`
	FDNumber             string           `db:"fd_number"`
	CustomerID           string           `db:"customer_id"`
	FundingAccountID     string           `db:"funding_account_id"`
	Principal            decimal.Decimal  `db:"principal"`
	InterestRate         decimal.Decimal  `db:"interest_rate"`
	TenureMonths         int              `db:"tenure_months"`
	StartDate            time.Time        `db:"start_date"`
	MaturityDate         time.Time        `db:"maturity_date"`
	MaturityAmount       decimal.Decimal  `db:"maturity_amount"`
	Status               string           `db:"status"`
	OpeningTransactionID string           `db:"opening_transaction_id"`
	ClosingTransactionID *string          `db:"closing_transaction_id"`
	PayoutAmount         *decimal.Decimal `db:"payout_amount"`
	ClosedAt             *time.Time       `db:"closed_at"`
	AuditFields
}
