package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
	"github.com/SscSPs/core_banking_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `transaction_id, reference, account_id, transaction_type, amount, balance_after, mode,
	description, counterparty_account_id, counterparty_account_number, status, created_by, transaction_date`

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transactions", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// FindTransactionsByReference returns every leg of a reference, debit first.
func (s *Store) FindTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE reference = $1
		ORDER BY CASE transaction_type WHEN 'DEBIT' THEN 0 ELSE 1 END, seq;`, reference)
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txs, err := s.queryTransactions(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txs[0], nil
}

// ListTransactionsByAccount returns one page of history, newest first, and the total row count.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, int, error) {
	var total int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count transactions", err)
	}
	txs, err := s.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_date DESC, seq DESC
		LIMIT $2 OFFSET $3;`, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListTransactionsByAccountAndDateRange returns rows in [from, to), oldest first.
func (s *Store) ListTransactionsByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		ORDER BY transaction_date, seq;`, accountID, from, to)
}

func (s *Store) FindLastTransactionBefore(ctx context.Context, accountID string, before time.Time) (*domain.Transaction, error) {
	txs, err := s.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND transaction_date < $2
		ORDER BY transaction_date DESC, seq DESC
		LIMIT 1;`, accountID, before)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: no transaction for %s before %s", apperrors.ErrNotFound, accountID, before.Format(time.RFC3339))
	}
	return &txs[0], nil
}
