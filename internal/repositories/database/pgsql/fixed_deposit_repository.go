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

const fixedDepositColumns = `fixed_deposit_id, fd_number, customer_id, funding_account_id, principal, interest_rate,
	tenure_months, start_date, maturity_date, maturity_amount, status, opening_transaction_id,
	closing_transaction_id, payout_amount, closed_at, created_at, created_by, last_updated_at, last_updated_by, version`

func (s *Store) queryFixedDeposits(ctx context.Context, query string, args ...any) ([]domain.FixedDeposit, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query fixed deposits", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FixedDeposit])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan fixed deposits", err)
	}
	out := make([]domain.FixedDeposit, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainFixedDeposit(m)
	}
	return out, nil
}

func (s *Store) findFixedDeposit(ctx context.Context, column, value string) (*domain.FixedDeposit, error) {
	fds, err := s.queryFixedDeposits(ctx, `SELECT `+fixedDepositColumns+` FROM fixed_deposits WHERE `+column+` = $1;`, value)
	if err != nil {
		return nil, err
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("%w: fixed deposit %s", apperrors.ErrNotFound, value)
	}
	return &fds[0], nil
}

func (s *Store) FindFixedDepositByID(ctx context.Context, fixedDepositID string) (*domain.FixedDeposit, error) {
	return s.findFixedDeposit(ctx, "fixed_deposit_id", fixedDepositID)
}

func (s *Store) FindFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error) {
	return s.findFixedDeposit(ctx, "fd_number", fdNumber)
}

func (s *Store) FindFixedDepositByOpeningTransaction(ctx context.Context, transactionID string) (*domain.FixedDeposit, error) {
	return s.findFixedDeposit(ctx, "opening_transaction_id", transactionID)
}

func (s *Store) ListFixedDepositsByCustomer(ctx context.Context, customerID string) ([]domain.FixedDeposit, error) {
	return s.queryFixedDeposits(ctx, `SELECT `+fixedDepositColumns+` FROM fixed_deposits WHERE customer_id = $1 ORDER BY start_date DESC, fd_number DESC;`, customerID)
}

func (s *Store) ListFixedDepositsByFundingAccount(ctx context.Context, accountID string) ([]domain.FixedDeposit, error) {
	return s.queryFixedDeposits(ctx, `SELECT `+fixedDepositColumns+` FROM fixed_deposits WHERE funding_account_id = $1 ORDER BY start_date DESC, fd_number DESC;`, accountID)
}

// ListMaturedFixedDeposits returns ACTIVE deposits due at asOf, earliest first.
func (s *Store) ListMaturedFixedDeposits(ctx context.Context, asOf time.Time) ([]domain.FixedDeposit, error) {
	return s.queryFixedDeposits(ctx, `
		SELECT `+fixedDepositColumns+`
		FROM fixed_deposits
		WHERE status = $1 AND maturity_date <= $2
		ORDER BY maturity_date, fd_number;`, string(domain.FixedDepositActive), asOf)
}

func (s *Store) FixedDepositNumberExists(ctx context.Context, fdNumber string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fixed_deposits WHERE fd_number = $1);`, fdNumber).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to check fixed deposit number", err)
	}
	return exists, nil
}
