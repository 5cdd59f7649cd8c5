package dto

import (
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyMovementRequest is the body of deposit and withdrawal calls. When
// Reference is empty the Idempotency-Key header is used instead.
type MoneyMovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,decimal_gt0,money_scale" swaggertype:"string" example:"250.00"`
	Description string          `json:"description" binding:"max=255"`
	Reference   string          `json:"reference" binding:"max=64"`
}

// TransferRequest moves money between two accounts identified by number.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" binding:"required"`
	ToAccountNumber   string          `json:"toAccountNumber" binding:"required,nefield=FromAccountNumber"`
	Amount            decimal.Decimal `json:"amount" binding:"required,decimal_gt0,money_scale" swaggertype:"string" example:"100.00"`
	Description       string          `json:"description" binding:"max=255"`
	Reference         string          `json:"reference" binding:"max=64"`
}

// TransactionResponse defines the data returned for a ledger row.
type TransactionResponse struct {
	TransactionID             string                   `json:"transactionID"`
	Reference                 string                   `json:"reference"`
	AccountID                 string                   `json:"accountID"`
	TransactionType           domain.TransactionType   `json:"transactionType"`
	Amount                    decimal.Decimal          `json:"amount"`
	BalanceAfter              decimal.Decimal          `json:"balanceAfter"`
	Mode                      domain.TransactionMode   `json:"mode"`
	Description               string                   `json:"description"`
	CounterpartyAccountID     string                   `json:"counterpartyAccountID,omitempty"`
	CounterpartyAccountNumber string                   `json:"counterpartyAccountNumber,omitempty"`
	Status                    domain.TransactionStatus `json:"status"`
	CreatedBy                 string                   `json:"createdBy"`
	TransactionDate           time.Time                `json:"transactionDate"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:             t.TransactionID,
		Reference:                 t.Reference,
		AccountID:                 t.AccountID,
		TransactionType:           t.TransactionType,
		Amount:                    t.Amount,
		BalanceAfter:              t.BalanceAfter,
		Mode:                      t.Mode,
		Description:               t.Description,
		CounterpartyAccountID:     t.CounterpartyAccountID,
		CounterpartyAccountNumber: t.CounterpartyAccountNumber,
		Status:                    t.Status,
		CreatedBy:                 t.CreatedBy,
		TransactionDate:           t.TransactionDate,
	}
}

func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for an account's history.
type ListTransactionsParams struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=20" binding:"min=1,max=100"`
}

// ListTransactionsResponse is one page of history, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Page         int                   `json:"page"`
	Size         int                   `json:"size"`
	Total        int                   `json:"total"`
}

// ToListTransactionsResponse converts a service page.
func ToListTransactionsResponse(p *domain.TransactionPage) ListTransactionsResponse {
	return ListTransactionsResponse{
		Transactions: ToListTransactionResponse(p.Transactions),
		Page:         p.Page,
		Size:         p.Size,
		Total:        p.Total,
	}
}

// TransactionRowsResponse lists every row written under one reference.
type TransactionRowsResponse struct {
	Reference    string                `json:"reference"`
	Transactions []TransactionResponse `json:"transactions"`
}
