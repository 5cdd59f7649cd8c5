package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the input to the transaction processor. For a
// DEPOSIT, SourceAccountID is the account being credited.
type TransactionRequest struct {
	Type                 RequestType
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	Description          string
	// Reference is the idempotency key. Generated when empty.
	Reference string
	// Mode overrides the default mode derived from Type.
	Mode  TransactionMode
	Actor string

	// Guard runs once all locks are held and before any balance changes.
	Guard func(ctx context.Context) error
	// Link returns records that must be committed atomically with the rows.
	// It receives the primary row (the debit leg of a transfer).
	Link func(primary Transaction) (LinkedRecords, error)
}

// LinkedRecords are persisted in the same batch as a transaction's rows.
type LinkedRecords struct {
	NewFixedDeposit            *FixedDeposit
	FixedDepositUpdate         *FixedDeposit
	FixedDepositExpectedStatus FixedDepositStatus
	InterestPosting            *InterestPosting
	// Audit replaces the default transaction audit entry.
	Audit *AuditLog
}

// DefaultMode maps a request type to the mode stamped on its rows.
func (t RequestType) DefaultMode() TransactionMode {
	switch t {
	case RequestWithdrawal:
		return ModeWithdrawal
	case RequestTransfer:
		return ModeTransfer
	default:
		return ModeDeposit
	}
}

// Valid reports whether t is a supported request type.
func (t RequestType) Valid() bool {
	return t == RequestDeposit || t == RequestWithdrawal || t == RequestTransfer
}

// FixedDepositRequest opens a new fixed deposit funded from an existing account.
type FixedDepositRequest struct {
	FundingAccountID string
	Principal        decimal.Decimal
	TenureMonths     int
	Reference        string
	Actor            string
}

// References generated for system postings. A client reference may not start
// with one of these prefixes.
const (
	interestReferencePrefix  = "INT-"
	maturityReferencePrefix  = "FDM-"
	prematureReferencePrefix = "FDP-"
)

var reservedReferencePrefixes = map[string]TransactionMode{
	interestReferencePrefix:  ModeInterest,
	maturityReferencePrefix:  ModeFDMaturity,
	prematureReferencePrefix: ModeFDPrematureClosure,
}

func InterestReference(accountID, periodKey string) string {
	return interestReferencePrefix + accountID + "-" + periodKey
}

func MaturityReference(fdNumber string) string {
	return maturityReferencePrefix + fdNumber
}

func PrematureClosureReference(fdNumber string) string {
	return prematureReferencePrefix + fdNumber
}

// ReservedReferenceMode reports the mode that owns reference's prefix, if any.
// Prefixes are matched case-insensitively.
func ReservedReferenceMode(reference string) (TransactionMode, bool) {
	upper := strings.ToUpper(reference)
	for prefix, mode := range reservedReferencePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return mode, true
		}
	}
	return "", false
}
