package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/core_banking_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertAccountSQL = `
		INSERT INTO accounts (account_id, account_number, customer_id, account_type, balance, minimum_balance,
			interest_rate, status, opened_at, closed_at, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

	updateAccountSQL = `
		UPDATE accounts
		SET balance = $2, status = $3, closed_at = $4, last_updated_at = $5, last_updated_by = $6, version = $7
		WHERE account_id = $1 AND version = $8;`

	insertTransactionSQL = `
		INSERT INTO transactions (transaction_id, reference, account_id, transaction_type, amount, balance_after, mode,
			description, counterparty_account_id, counterparty_account_number, status, created_by, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	insertFixedDepositSQL = `
		INSERT INTO fixed_deposits (fixed_deposit_id, fd_number, customer_id, funding_account_id, principal, interest_rate,
			tenure_months, start_date, maturity_date, maturity_amount, status, opening_transaction_id,
			closing_transaction_id, payout_amount, closed_at, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`

	updateFixedDepositSQL = `
		UPDATE fixed_deposits
		SET status = $2, closing_transaction_id = $3, payout_amount = $4, closed_at = $5,
			last_updated_at = $6, last_updated_by = $7, version = $8
		WHERE fixed_deposit_id = $1 AND status = $9;`

	insertPostingSQL = `
		INSERT INTO interest_postings (posting_id, resource_type, resource_id, period_key, period_start, period_end,
			posting_date, interest_amount, balance_used, rate_applied, days_calculated, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	insertAuditLogSQL = `
		INSERT INTO audit_logs (audit_id, resource_type, resource_id, action, old_value, new_value, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
)

// expectOneRow fails the batch when a guarded UPDATE matched nothing.
func expectOneRow(format string, args ...any) func(pgconn.CommandTag) error {
	return func(ct pgconn.CommandTag) error {
		if ct.RowsAffected() != 1 {
			return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrConflict}, args...)...)
		}
		return nil
	}
}

// CommitBatch writes every record of the batch in one database transaction.
func (s *Store) CommitBatch(ctx context.Context, batch portsrepo.LedgerBatch) error {
	if batch.IsEmpty() {
		return nil
	}

	b := &pgx.Batch{}
	for _, a := range batch.NewAccounts {
		m := mapping.ToModelAccount(a)
		b.Queue(insertAccountSQL,
			m.AccountID, m.AccountNumber, m.CustomerID, m.AccountType, m.Balance, m.MinimumBalance,
			m.InterestRate, m.Status, m.OpenedAt, m.ClosedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version)
	}
	for _, u := range batch.AccountUpdates {
		m := mapping.ToModelAccount(u.Account)
		b.Queue(updateAccountSQL,
			m.AccountID, m.Balance, m.Status, m.ClosedAt, m.LastUpdatedAt, m.LastUpdatedBy, m.Version, u.ExpectedVersion,
		).Exec(expectOneRow("account %s is no longer at version %d", m.AccountID, u.ExpectedVersion))
	}
	for _, t := range batch.Transactions {
		m := mapping.ToModelTransaction(t)
		b.Queue(insertTransactionSQL,
			m.TransactionID, m.Reference, m.AccountID, m.TransactionType, m.Amount, m.BalanceAfter, m.Mode,
			m.Description, m.CounterpartyAccountID, m.CounterpartyAccountNumber, m.Status, m.CreatedBy, m.TransactionDate)
	}
	for _, fd := range batch.NewFixedDeposits {
		m := mapping.ToModelFixedDeposit(fd)
		b.Queue(insertFixedDepositSQL,
			m.FixedDepositID, m.FDNumber, m.CustomerID, m.FundingAccountID, m.Principal, m.InterestRate,
			m.TenureMonths, m.StartDate, m.MaturityDate, m.MaturityAmount, m.Status, m.OpeningTransactionID,
			m.ClosingTransactionID, m.PayoutAmount, m.ClosedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version)
	}
	for _, u := range batch.FixedDepositUpdates {
		m := mapping.ToModelFixedDeposit(u.FixedDeposit)
		b.Queue(updateFixedDepositSQL,
			m.FixedDepositID, m.Status, m.ClosingTransactionID, m.PayoutAmount, m.ClosedAt,
			m.LastUpdatedAt, m.LastUpdatedBy, m.Version, string(u.ExpectedStatus),
		).Exec(expectOneRow("fixed deposit %s is no longer %s", m.FDNumber, u.ExpectedStatus))
	}
	for _, p := range batch.InterestPostings {
		m := mapping.ToModelInterestPosting(p)
		b.Queue(insertPostingSQL,
			m.PostingID, m.ResourceType, m.ResourceID, m.PeriodKey, m.PeriodStart, m.PeriodEnd,
			m.PostingDate, m.InterestAmount, m.BalanceUsed, m.RateApplied, m.DaysCalculated, m.Status, m.TransactionID)
	}
	for _, l := range batch.AuditLogs {
		m := mapping.ToModelAuditLog(l)
		b.Queue(insertAuditLogSQL, m.AuditID, m.ResourceType, m.ResourceID, m.Action, m.OldValue, m.NewValue, m.Actor, m.Timestamp)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx) // no-op after commit

	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return writeError(err)
	}
	return s.Commit(ctx, tx)
}
