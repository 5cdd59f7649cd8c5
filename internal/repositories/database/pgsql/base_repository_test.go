package pgsql

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "reference replay",
			err:  &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintTransactionReference, Detail: "Key (reference, transaction_type)=(TXN1, CREDIT) already exists."},
			want: apperrors.ErrDuplicateReference,
		},
		{
			name: "other unique key",
			err:  &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "accounts_account_number_key"},
			want: apperrors.ErrDuplicate,
		},
		{
			name: "missing parent row",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation, Detail: "Key (account_id)=(x) is not present."},
			want: apperrors.ErrNotFound,
		},
		{
			name: "version guard",
			err:  fmt.Errorf("%w: account a1 changed", apperrors.ErrConflict),
			want: apperrors.ErrConflict,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, writeError(tc.err), tc.want)
		})
	}
}

func TestWriteError_UnknownIsInternal(t *testing.T) {
	err := writeError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows, "account 42"), apperrors.ErrNotFound)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(notFound(errors.New("timeout"), "account 42")))
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
}
