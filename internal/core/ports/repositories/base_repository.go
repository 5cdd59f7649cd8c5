package repositories

import (
	"context"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
)

// AccountUpdate replaces a stored account if its version still equals ExpectedVersion.
type AccountUpdate struct {
	Account         domain.Account
	ExpectedVersion int64
}

// FixedDepositUpdate replaces a stored deposit if its status still equals ExpectedStatus.
type FixedDepositUpdate struct {
	FixedDeposit   domain.FixedDeposit
	ExpectedStatus domain.FixedDepositStatus
}

// LedgerBatch is the unit of atomic persistence: either everything in it is
// stored or nothing is.
type LedgerBatch struct {
	NewAccounts         []domain.Account
	AccountUpdates      []AccountUpdate
	Transactions        []domain.Transaction
	NewFixedDeposits    []domain.FixedDeposit
	FixedDepositUpdates []FixedDepositUpdate
	InterestPostings    []domain.InterestPosting
	AuditLogs           []domain.AuditLog
}

// IsEmpty reports whether the batch carries no writes.
func (b LedgerBatch) IsEmpty() bool {
	return len(b.NewAccounts) == 0 && len(b.AccountUpdates) == 0 && len(b.Transactions) == 0 &&
		len(b.NewFixedDeposits) == 0 && len(b.FixedDepositUpdates) == 0 &&
		len(b.InterestPostings) == 0 && len(b.AuditLogs) == 0
}

// LedgerWriter is the only write path into storage.
//
// CommitBatch returns apperrors.ErrDuplicateReference when a transaction row
// with the same (reference, type) exists, apperrors.ErrDuplicate for other
// unique keys, and apperrors.ErrConflict when an expected version or status
// no longer matches.
type LedgerWriter interface {
	CommitBatch(ctx context.Context, batch LedgerBatch) error
}
