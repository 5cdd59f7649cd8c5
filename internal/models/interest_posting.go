package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestPosting is the row shape of the interest_postings table.
type InterestPosting struct {
	PostingID      string          `db:"posting_id"`
	ResourceType   string          `db:"resource_type"`
	ResourceID     string          `db:"resource_id"`
	PeriodKey      string          `db:"period_key"`
	PeriodStart    time.Time       `db:"period_start"`
	PeriodEnd      time.Time       `db:"period_end"`
	PostingDate    time.Time       `db:"posting_date"`
	InterestAmount decimal.Decimal `db:"interest_amount"`
	BalanceUsed    decimal.Decimal `db:"balance_used"`
	RateApplied    decimal.Decimal `db:"rate_applied"`
	DaysCalculated int             `db:"days_calculated"`
	Status         string          `db:"status"`
	TransactionID  *string         `db:"transaction_id"`
}
