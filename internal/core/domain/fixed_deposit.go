package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedDepositStatus is the lifecycle state of a fixed deposit.
type FixedDepositStatus string

const (
	FixedDepositActive           FixedDepositStatus = "ACTIVE"
	FixedDepositMatured          FixedDepositStatus = "MATURED"
	FixedDepositPrematureClosure FixedDepositStatus = "PREMATURE_CLOSURE"
)

// FixedDeposit locks a principal for a tenure at a fixed rate. MaturityAmount is
// computed once at creation and never changes.
type FixedDeposit struct {
	FixedDepositID       string             `json:"fixedDepositID"`
	FDNumber             string             `json:"fdNumber"`
	CustomerID           string             `json:"customerID"`
	FundingAccountID     string             `json:"fundingAccountID"`
	Principal            decimal.Decimal    `json:"principal"`
	InterestRate         decimal.Decimal    `json:"interestRate"` // annual percent
	TenureMonths         int                `json:"tenureMonths"`
	StartDate            time.Time          `json:"startDate"`
	MaturityDate         time.Time          `json:"maturityDate"`
	MaturityAmount       decimal.Decimal    `json:"maturityAmount"`
	Status               FixedDepositStatus `json:"status"`
	OpeningTransactionID string             `json:"openingTransactionID"`
	ClosingTransactionID string             `json:"closingTransactionID,omitempty"`
	PayoutAmount         *decimal.Decimal   `json:"payoutAmount,omitempty"`
	ClosedAt             *time.Time         `json:"closedAt,omitempty"`
	AuditFields
}

// IsMatured reports whether the deposit has reached its maturity date at asOf.
func (fd FixedDeposit) IsMatured(asOf time.Time) bool {
	return !fd.MaturityDate.After(asOf)
}
