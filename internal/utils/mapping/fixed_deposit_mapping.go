package mapping

import (
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
)

// ToModelFixedDeposit converts a domain FixedDeposit to a model FixedDeposit
func ToModelFixedDeposit(d domain.FixedDeposit) models.FixedDeposit {
	return models.FixedDeposit{
		FixedDepositID:       d.FixedDepositID,
		FDNumber:             d.FDNumber,
		CustomerID:           d.CustomerID,
		FundingAccountID:     d.FundingAccountID,
		Principal:            d.Principal,
		InterestRate:         d.InterestRate,
		TenureMonths:         d.TenureMonths,
		StartDate:            d.StartDate,
		MaturityDate:         d.MaturityDate,
		MaturityAmount:       d.MaturityAmount,
		Status:               string(d.Status),
		OpeningTransactionID: d.OpeningTransactionID,
		ClosingTransactionID: nullable(d.ClosingTransactionID),
		PayoutAmount:         d.PayoutAmount,
		ClosedAt:             d.ClosedAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFixedDeposit converts a model FixedDeposit to a domain FixedDeposit
func ToDomainFixedDeposit(m models.FixedDeposit) domain.FixedDeposit {
	return domain.FixedDeposit{
		FixedDepositID:       m.FixedDepositID,
		FDNumber:             m.FDNumber,
		CustomerID:           m.CustomerID,
		FundingAccountID:     m.FundingAccountID,
		Principal:            m.Principal,
		InterestRate:         m.InterestRate,
		TenureMonths:         m.TenureMonths,
		StartDate:            m.StartDate,
		MaturityDate:         m.MaturityDate,
		MaturityAmount:       m.MaturityAmount,
		Status:               domain.FixedDepositStatus(m.Status),
		OpeningTransactionID: m.OpeningTransactionID,
		ClosingTransactionID: deref(m.ClosingTransactionID),
		PayoutAmount:         m.PayoutAmount,
		ClosedAt:             m.ClosedAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
