package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/core_banking_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// LockConfig bounds how long the ledger waits for account locks.
type LockConfig struct {
	Timeout     time.Duration // per attempt
	MaxAttempts int
	Backoff     time.Duration // doubled after every failed attempt
}

// DefaultLockConfig is used when no configuration is supplied.
var DefaultLockConfig = LockConfig{Timeout: 2 * time.Second, MaxAttempts: 3, Backoff: 50 * time.Millisecond}

// AccountLedger serializes balance changes per account. Locks are always
// taken in ascending account-id order so concurrent multi-account operations
// cannot deadlock.
type AccountLedger struct {
	BaseService
	accounts portsrepo.AccountReader
	policies domain.AccountPolicies
	locks    *lockTable
	cfg      LockConfig
}

// NewAccountLedger creates a ledger over the given account reader.
func NewAccountLedger(accounts portsrepo.AccountReader, policies domain.AccountPolicies, cfg LockConfig) *AccountLedger {
	if policies == nil {
		policies = domain.DefaultAccountPolicies
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLockConfig.Timeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultLockConfig.MaxAttempts
	}
	return &AccountLedger{
		accounts: accounts,
		policies: policies,
		locks:    newLockTable(),
		cfg:      cfg,
	}
}

// Policies exposes the per-type rules the ledger enforces.
func (l *AccountLedger) Policies() domain.AccountPolicies {
	return l.policies
}

// GetBalance returns the committed balance of an account.
func (l *AccountLedger) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := l.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Lock acquires exclusive locks on every given account and loads their
// current state. It returns apperrors.ErrBusy when the locks could not be
// obtained within the configured attempts, and apperrors.ErrNotFound (after
// releasing everything) when an account does not exist.
func (l *AccountLedger) Lock(ctx context.Context, accountIDs ...string) (*LedgerSession, error) {
	ids := sortedUnique(accountIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no accounts to lock", apperrors.ErrValidation)
	}

	backoff := l.cfg.Backoff
	for attempt := 1; ; attempt++ {
		err := l.acquireAll(ctx, ids)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt >= l.cfg.MaxAttempts {
			l.LogWarn(ctx, err, "Giving up on account locks", slog.Any("account_ids", ids), slog.Int("attempts", attempt))
			return nil, fmt.Errorf("%w: accounts %v", apperrors.ErrBusy, ids)
		}
		l.LogDebug(ctx, "Account locks busy, backing off", slog.Int("attempt", attempt), slog.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	session := &LedgerSession{
		ledger:   l,
		held:     ids,
		accounts: make(map[string]*domain.Account, len(ids)),
		versions: make(map[string]int64, len(ids)),
		touched:  make(map[string]bool, len(ids)),
	}
	loaded, err := l.accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		session.Release()
		return nil, err
	}
	for _, id := range ids {
		account, ok := loaded[id]
		if !ok {
			session.Release()
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		session.accounts[id] = &account
		session.versions[id] = account.Version
	}
	return session, nil
}

// acquireAll takes every lock in order, each bounded by the per-attempt
// timeout. On failure everything taken so far is released.
func (l *AccountLedger) acquireAll(ctx context.Context, ids []string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	for i, id := range ids {
		if err := l.locks.acquire(attemptCtx, id); err != nil {
			for _, heldID := range ids[:i] {
				l.locks.release(heldID)
			}
			return err
		}
	}
	return nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LedgerSession is a set of held account locks plus the in-flight balances.
// It is not safe for concurrent use.
type LedgerSession struct {
	ledger   *AccountLedger
	held     []string
	accounts map[string]*domain.Account
	versions map[string]int64
	touched  map[string]bool
	released bool
}

// Account returns the current in-session view of a locked account.
func (s *LedgerSession) Account(accountID string) (domain.Account, error) {
	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s is not locked by this session", apperrors.ErrInvalidState, accountID)
	}
	return *account, nil
}

// Debit lowers the balance, refusing to cross the account's floor.
func (s *LedgerSession) Debit(accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := s.mutable(accountID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := account.Balance.Sub(amount)
	floor := s.ledger.policies.Lookup(account.AccountType).Floor(*account)
	if newBalance.LessThan(floor) {
		return decimal.Zero, fmt.Errorf("%w: account %s balance %s, debit %s, floor %s",
			apperrors.ErrInsufficientFunds, account.AccountNumber, account.Balance.StringFixed(2), amount.StringFixed(2), floor.StringFixed(2))
	}
	account.Balance = newBalance
	s.touched[accountID] = true
	return newBalance, nil
}

// Credit raises the balance.
func (s *LedgerSession) Credit(accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := s.mutable(accountID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	account.Balance = account.Balance.Add(amount)
	s.touched[accountID] = true
	return account.Balance, nil
}

func (s *LedgerSession) mutable(accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if s.released {
		return nil, fmt.Errorf("%w: session released", apperrors.ErrInvalidState)
	}
	if err := accounting.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s is not locked by this session", apperrors.ErrInvalidState, accountID)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, account.AccountNumber, account.Status)
	}
	return account, nil
}

// SetStatus changes a locked account's lifecycle state.
func (s *LedgerSession) SetStatus(accountID string, status domain.AccountStatus, at time.Time) (domain.Account, error) {
	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s is not locked by this session", apperrors.ErrInvalidState, accountID)
	}
	if !account.Status.CanTransitionTo(status) {
		return domain.Account{}, fmt.Errorf("%w: cannot move account from %s to %s", apperrors.ErrInvalidState, account.Status, status)
	}
	account.Status = status
	if status == domain.AccountStatusClosed {
		closedAt := at
		account.ClosedAt = &closedAt
	}
	s.touched[accountID] = true
	return *account, nil
}

// Updates returns version-checked updates for every account the session changed.
func (s *LedgerSession) Updates(actor string, at time.Time) []portsrepo.AccountUpdate {
	updates := make([]portsrepo.AccountUpdate, 0, len(s.touched))
	for _, id := range s.held {
		if !s.touched[id] {
			continue
		}
		account := *s.accounts[id]
		account.Version = s.versions[id] + 1
		account.LastUpdatedAt = at
		account.LastUpdatedBy = actor
		updates = append(updates, portsrepo.AccountUpdate{Account: account, ExpectedVersion: s.versions[id]})
	}
	return updates
}

// Release frees every held lock. Safe to call more than once.
func (s *LedgerSession) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.held) - 1; i >= 0; i-- {
		s.ledger.locks.release(s.held[i])
	}
}

// isBusy reports whether err came from lock contention.
func isBusy(err error) bool {
	return errors.Is(err, apperrors.ErrBusy)
}
