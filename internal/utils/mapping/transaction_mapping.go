package mapping

import (
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:             d.TransactionID,
		Reference:                 d.Reference,
		AccountID:                 d.AccountID,
		TransactionType:           string(d.TransactionType),
		Amount:                    d.Amount,
		BalanceAfter:              d.BalanceAfter,
		Mode:                      string(d.Mode),
		Description:               d.Description,
		CounterpartyAccountID:     nullable(d.CounterpartyAccountID),
		CounterpartyAccountNumber: nullable(d.CounterpartyAccountNumber),
		Status:                    string(d.Status),
		CreatedBy:                 d.CreatedBy,
		TransactionDate:           d.TransactionDate,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:             m.TransactionID,
		Reference:                 m.Reference,
		AccountID:                 m.AccountID,
		TransactionType:           domain.TransactionType(m.TransactionType),
		Amount:                    m.Amount,
		BalanceAfter:              m.BalanceAfter,
		Mode:                      domain.TransactionMode(m.Mode),
		Description:               m.Description,
		CounterpartyAccountID:     deref(m.CounterpartyAccountID),
		CounterpartyAccountNumber: deref(m.CounterpartyAccountNumber),
		Status:                    domain.TransactionStatus(m.Status),
		CreatedBy:                 m.CreatedBy,
		TransactionDate:           m.TransactionDate,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
