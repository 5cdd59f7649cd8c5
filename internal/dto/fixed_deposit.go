package dto

import (
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFixedDepositRequest opens a deposit funded from an existing account.
type CreateFixedDepositRequest struct {
	FundingAccountNumber string          `json:"fundingAccountNumber" binding:"required"`
	Principal            decimal.Decimal `json:"principal" binding:"required,decimal_gt0,money_scale" swaggertype:"string" example:"1000.00"`
	TenureMonths         int             `json:"tenureMonths" binding:"required,gt=0"`
	Reference            string          `json:"reference" binding:"max=64"`
}

// FixedDepositResponse defines the data returned for a fixed deposit.
type FixedDepositResponse struct {
	FixedDepositID       string                    `json:"fixedDepositID"`
	FDNumber             string                    `json:"fdNumber"`
	CustomerID           string                    `json:"customerID"`
	FundingAccountID     string                    `json:"fundingAccountID"`
	Principal            decimal.Decimal           `json:"principal"`
	InterestRate         decimal.Decimal           `json:"interestRate"`
	TenureMonths         int                       `json:"tenureMonths"`
	StartDate            time.Time                 `json:"startDate"`
	MaturityDate         time.Time                 `json:"maturityDate"`
	MaturityAmount       decimal.Decimal           `json:"maturityAmount"`
	Status               domain.FixedDepositStatus `json:"status"`
	OpeningTransactionID string                    `json:"openingTransactionID"`
	ClosingTransactionID string                    `json:"closingTransactionID,omitempty"`
	PayoutAmount         *decimal.Decimal          `json:"payoutAmount,omitempty"`
	ClosedAt             *time.Time                `json:"closedAt,omitempty"`
}

// ToFixedDepositResponse converts a domain.FixedDeposit to its DTO.
func ToFixedDepositResponse(fd *domain.FixedDeposit) FixedDepositResponse {
	return FixedDepositResponse{
		FixedDepositID:       fd.FixedDepositID,
		FDNumber:             fd.FDNumber,
		CustomerID:           fd.CustomerID,
		FundingAccountID:     fd.FundingAccountID,
		Principal:            fd.Principal,
		InterestRate:         fd.InterestRate,
		TenureMonths:         fd.TenureMonths,
		StartDate:            fd.StartDate,
		MaturityDate:         fd.MaturityDate,
		MaturityAmount:       fd.MaturityAmount,
		Status:               fd.Status,
		OpeningTransactionID: fd.OpeningTransactionID,
		ClosingTransactionID: fd.ClosingTransactionID,
		PayoutAmount:         fd.PayoutAmount,
		ClosedAt:             fd.ClosedAt,
	}
}

func ToListFixedDepositResponse(fds []domain.FixedDeposit) []FixedDepositResponse {
	res := make([]FixedDepositResponse, len(fds))
	for i := range fds {
		res[i] = ToFixedDepositResponse(&fds[i])
	}
	return res
}

// ListFixedDepositsResponse wraps a customer's deposits.
type ListFixedDepositsResponse struct {
	FixedDeposits []FixedDepositResponse `json:"fixedDeposits"`
}
