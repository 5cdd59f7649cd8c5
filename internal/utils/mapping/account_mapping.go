package mapping

import (
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		AccountNumber:  d.AccountNumber,
		CustomerID:     d.CustomerID,
		AccountType:    string(d.AccountType),
		Balance:        d.Balance,
		MinimumBalance: d.MinimumBalance,
		InterestRate:   d.InterestRate,
		Status:         string(d.Status),
		OpenedAt:       d.OpenedAt,
		ClosedAt:       d.ClosedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		AccountNumber:  m.AccountNumber,
		CustomerID:     m.CustomerID,
		AccountType:    domain.AccountType(m.AccountType),
		Balance:        m.Balance,
		MinimumBalance: m.MinimumBalance,
		InterestRate:   m.InterestRate,
		Status:         domain.AccountStatus(m.Status),
		OpenedAt:       m.OpenedAt,
		ClosedAt:       m.ClosedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
