package mapping

import (
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
)

// ToModelInterestPosting converts a domain InterestPosting to a model InterestPosting
func ToModelInterestPosting(d domain.InterestPosting) models.InterestPosting {
	return models.InterestPosting{
		PostingID:      d.PostingID,
		ResourceType:   string(d.ResourceType),
		ResourceID:     d.ResourceID,
		PeriodKey:      d.PeriodKey,
		PeriodStart:    d.PeriodStart,
		PeriodEnd:      d.PeriodEnd,
		PostingDate:    d.PostingDate,
		InterestAmount: d.InterestAmount,
		BalanceUsed:    d.BalanceUsed,
		RateApplied:    d.RateApplied,
		DaysCalculated: d.DaysCalculated,
		Status:         string(d.Status),
		TransactionID:  nullable(d.TransactionID),
	}
}

// ToDomainInterestPosting converts a model InterestPosting to a domain InterestPosting
func ToDomainInterestPosting(m models.InterestPosting) domain.InterestPosting {
	return domain.InterestPosting{
		PostingID:      m.PostingID,
		ResourceType:   domain.PostingResourceType(m.ResourceType),
		ResourceID:     m.ResourceID,
		PeriodKey:      m.PeriodKey,
		PeriodStart:    m.PeriodStart,
		PeriodEnd:      m.PeriodEnd,
		PostingDate:    m.PostingDate,
		InterestAmount: m.InterestAmount,
		BalanceUsed:    m.BalanceUsed,
		RateApplied:    m.RateApplied,
		DaysCalculated: m.DaysCalculated,
		Status:         domain.PostingStatus(m.Status),
		TransactionID:  deref(m.TransactionID),
	}
}
