package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/SscSPs/core_banking_ledger/internal/models"
	"github.com/SscSPs/core_banking_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, account_number, customer_id, account_type, balance, minimum_balance,
	interest_rate, status, opened_at, closed_at, created_at, created_by, last_updated_at, last_updated_by, version`

func (s *Store) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query accounts", err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan accounts", err)
	}
	return accounts, nil
}

func (s *Store) findAccount(ctx context.Context, column, value string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1;`
	rows, err := s.Pool.Query(ctx, query, value)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query account", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("account %s", value))
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.findAccount(ctx, "account_id", accountID)
}

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.findAccount(ctx, "account_number", accountNumber)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are absent from the map.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ms, err := s.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

func (s *Store) ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	ms, err := s.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE customer_id = $1 ORDER BY opened_at, account_id;`, customerID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (s *Store) ListActiveAccountsByTypes(ctx context.Context, types []domain.AccountType) ([]domain.Account, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	ms, err := s.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE status = $1 AND account_type = ANY($2) ORDER BY opened_at, account_id;`,
		string(domain.AccountStatusActive), names)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (s *Store) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to check account number", err)
	}
	return exists, nil
}
