package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger row debits or credits its account.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// TransactionMode describes the business operation that produced a row.
type TransactionMode string

const (
	ModeDeposit            TransactionMode = "DEPOSIT"
	ModeWithdrawal         TransactionMode = "WITHDRAWAL"
	ModeTransfer           TransactionMode = "TRANSFER"
	ModeInterest           TransactionMode = "INTEREST"
	ModeFDOpening          TransactionMode = "FD_OPENING"
	ModeFDMaturity         TransactionMode = "FD_MATURITY"
	ModeFDPrematureClosure TransactionMode = "FD_PREMATURE_CLOSURE"
)

// TransactionStatus is the lifecycle state of a request / row.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// RequestType is the kind of money movement a caller asks for.
type RequestType string

const (
	RequestDeposit    RequestType = "DEPOSIT"
	RequestWithdrawal RequestType = "WITHDRAWAL"
	RequestTransfer   RequestType = "TRANSFER"
)

// Transaction is one immutable ledger row affecting one account. A transfer
// produces two rows (DEBIT on the source, CREDIT on the destination) sharing
// the same Reference.
type Transaction struct {
	TransactionID             string            `json:"transactionID"`
	Reference                 string            `json:"reference"`
	AccountID                 string            `json:"accountID"`
	TransactionType           TransactionType   `json:"transactionType"`
	Amount                    decimal.Decimal   `json:"amount"`
	BalanceAfter              decimal.Decimal   `json:"balanceAfter"`
	Mode                      TransactionMode   `json:"mode"`
	Description               string            `json:"description"`
	CounterpartyAccountID     string            `json:"counterpartyAccountID,omitempty"`
	CounterpartyAccountNumber string            `json:"counterpartyAccountNumber,omitempty"`
	Status                    TransactionStatus `json:"status"`
	CreatedBy                 string            `json:"createdBy"`
	TransactionDate           time.Time         `json:"transactionDate"`
}

// TransactionPage is one page of an account's history, newest first.
type TransactionPage struct {
	Transactions []Transaction
	Page         int
	Size         int
	Total        int
}
