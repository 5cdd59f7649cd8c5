package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingResourceType identifies what an interest posting was computed for.
type PostingResourceType string

const (
	PostingResourceAccount      PostingResourceType = "ACCOUNT"
	PostingResourceFixedDeposit PostingResourceType = "FIXED_DEPOSIT"
)

// PostingStatus tracks whether interest has been credited.
type PostingStatus string

const (
	PostingCalculated PostingStatus = "CALCULATED"
	PostingPosted     PostingStatus = "POSTED"
)

// InterestPosting records interest for one resource and one period. At most one
// exists per (ResourceID, PeriodKey).
type InterestPosting struct {
	PostingID      string              `json:"postingID"`
	ResourceType   PostingResourceType `json:"resourceType"`
	ResourceID     string              `json:"resourceID"`
	PeriodKey      string              `json:"periodKey"`
	PeriodStart    time.Time           `json:"periodStart"`
	PeriodEnd      time.Time           `json:"periodEnd"`
	PostingDate    time.Time           `json:"postingDate"`
	InterestAmount decimal.Decimal     `json:"interestAmount"`
	BalanceUsed    decimal.Decimal     `json:"balanceUsed"`
	RateApplied    decimal.Decimal     `json:"rateApplied"`
	DaysCalculated int                 `json:"daysCalculated"`
	Status         PostingStatus       `json:"status"`
	TransactionID  string              `json:"transactionID,omitempty"`
}

// SweepSummary reports the outcome of one scheduled sweep.
type SweepSummary struct {
	Processed     int             `json:"processed"`
	Posted        int             `json:"posted"`
	Skipped       int             `json:"skipped"`
	Failed        int             `json:"failed"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
}
