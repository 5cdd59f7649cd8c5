// Package memory is an in-process LedgerStore. It backs the test suites and
// single-node deployments started with STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/core_banking_ledger/internal/utils/pagination"
)

// Store keeps every table in maps guarded by one RWMutex. CommitBatch checks
// all constraints before applying anything, so a batch is all-or-nothing.
type Store struct {
	mu sync.RWMutex

	accounts        map[string]domain.Account
	accountByNumber map[string]string

	transactions []domain.Transaction
	txIndex      map[string]int      // transaction id -> position
	txRefs       map[string]struct{} // reference|type

	deposits   map[string]domain.FixedDeposit
	fdByNumber map[string]string

	postings map[string]domain.InterestPosting // resource|period key

	auditLogs []domain.AuditLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:        make(map[string]domain.Account),
		accountByNumber: make(map[string]string),
		txIndex:         make(map[string]int),
		txRefs:          make(map[string]struct{}),
		deposits:        make(map[string]domain.FixedDeposit),
		fdByNumber:      make(map[string]string),
		postings:        make(map[string]domain.InterestPosting),
	}
}

var _ portsrepo.LedgerStore = (*Store)(nil)

func refKey(reference string, t domain.TransactionType) string {
	return reference + "|" + string(t)
}

func postingKey(resourceID, periodKey string) string {
	return resourceID + "|" + periodKey
}

// CommitBatch implements portsrepo.LedgerWriter.
func (s *Store) CommitBatch(ctx context.Context, batch portsrepo.LedgerBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBatch(batch); err != nil {
		return err
	}

	for _, a := range batch.NewAccounts {
		s.accounts[a.AccountID] = a
		s.accountByNumber[a.AccountNumber] = a.AccountID
	}
	for _, u := range batch.AccountUpdates {
		s.accounts[u.Account.AccountID] = u.Account
	}
	for _, t := range batch.Transactions {
		s.txIndex[t.TransactionID] = len(s.transactions)
		s.txRefs[refKey(t.Reference, t.TransactionType)] = struct{}{}
		s.transactions = append(s.transactions, t)
	}
	for _, fd := range batch.NewFixedDeposits {
		s.deposits[fd.FixedDepositID] = fd
		s.fdByNumber[fd.FDNumber] = fd.FixedDepositID
	}
	for _, u := range batch.FixedDepositUpdates {
		s.deposits[u.FixedDeposit.FixedDepositID] = u.FixedDeposit
	}
	for _, p := range batch.InterestPostings {
		s.postings[postingKey(p.ResourceID, p.PeriodKey)] = p
	}
	s.auditLogs = append(s.auditLogs, batch.AuditLogs...)
	return nil
}

func (s *Store) checkBatch(batch portsrepo.LedgerBatch) error {
	newNumbers := make(map[string]struct{})
	for _, a := range batch.NewAccounts {
		if _, ok := s.accounts[a.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, a.AccountID)
		}
		if _, ok := s.accountByNumber[a.AccountNumber]; ok {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, a.AccountNumber)
		}
		if _, ok := newNumbers[a.AccountNumber]; ok {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, a.AccountNumber)
		}
		newNumbers[a.AccountNumber] = struct{}{}
	}

	for _, u := range batch.AccountUpdates {
		current, ok := s.accounts[u.Account.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, u.Account.AccountID)
		}
		if current.Version != u.ExpectedVersion {
			return fmt.Errorf("%w: account %s at version %d, expected %d", apperrors.ErrConflict, current.AccountID, current.Version, u.ExpectedVersion)
		}
	}

	refs := make(map[string]struct{})
	for _, t := range batch.Transactions {
		k := refKey(t.Reference, t.TransactionType)
		if _, ok := s.txRefs[k]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, t.Reference)
		}
		if _, ok := refs[k]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, t.Reference)
		}
		refs[k] = struct{}{}
		if _, ok := s.txIndex[t.TransactionID]; ok {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, t.TransactionID)
		}
	}

	for _, fd := range batch.NewFixedDeposits {
		if _, ok := s.deposits[fd.FixedDepositID]; ok {
			return fmt.Errorf("%w: fixed deposit %s", apperrors.ErrDuplicate, fd.FixedDepositID)
		}
		if _, ok := s.fdByNumber[fd.FDNumber]; ok {
			return fmt.Errorf("%w: fixed deposit number %s", apperrors.ErrDuplicate, fd.FDNumber)
		}
	}

	for _, u := range batch.FixedDepositUpdates {
		current, ok := s.deposits[u.FixedDeposit.FixedDepositID]
		if !ok {
			return fmt.Errorf("%w: fixed deposit %s", apperrors.ErrNotFound, u.FixedDeposit.FixedDepositID)
		}
		if current.Status != u.ExpectedStatus {
			return fmt.Errorf("%w: fixed deposit %s is %s", apperrors.ErrConflict, current.FixedDepositID, current.Status)
		}
	}

	keys := make(map[string]struct{})
	for _, p := range batch.InterestPostings {
		k := postingKey(p.ResourceID, p.PeriodKey)
		if _, ok := s.postings[k]; ok {
			return fmt.Errorf("%w: interest posting %s", apperrors.ErrDuplicate, k)
		}
		if _, ok := keys[k]; ok {
			return fmt.Errorf("%w: interest posting %s", apperrors.ErrDuplicate, k)
		}
		keys[k] = struct{}{}
	}
	return nil
}

// --- accounts ---

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.accountByNumber[accountNumber]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindAccountByID(ctx, id)
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (s *Store) ListAccountsByCustomer(_ context.Context, customerID string) ([]domain.Account, error) {
	return s.filterAccounts(func(a domain.Account) bool { return a.CustomerID == customerID }), nil
}

func (s *Store) ListActiveAccountsByTypes(_ context.Context, types []domain.AccountType) ([]domain.Account, error) {
	wanted := make(map[domain.AccountType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	return s.filterAccounts(func(a domain.Account) bool {
		_, ok := wanted[a.AccountType]
		return ok && a.Status == domain.AccountStatusActive
	}), nil
}

func (s *Store) filterAccounts(keep func(domain.Account) bool) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Account{}
	for _, a := range s.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

func (s *Store) AccountNumberExists(_ context.Context, accountNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accountByNumber[accountNumber]
	return ok, nil
}

// --- transactions ---

func (s *Store) FindTransactionsByReference(_ context.Context, reference string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Transaction{}
	for _, t := range s.transactions {
		if t.Reference == reference {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.txIndex[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t := s.transactions[i]
	return &t, nil
}

// accountHistory returns an account's rows newest first. Rows with equal
// dates keep reverse insertion order.
func (s *Store) accountHistory(accountID string) []domain.Transaction {
	out := []domain.Transaction{}
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].AccountID == accountID {
			out = append(out, s.transactions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out
}

func (s *Store) ListTransactionsByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.Transaction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.accountHistory(accountID)
	total := len(history)
	if offset >= total {
		return []domain.Transaction{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return history[offset:end], total, nil
}

func (s *Store) ListTransactionsByAccountAndDateRange(_ context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.accountHistory(accountID)
	out := []domain.Transaction{}
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		if !t.TransactionDate.Before(from) && t.TransactionDate.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) FindLastTransactionBefore(_ context.Context, accountID string, before time.Time) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.accountHistory(accountID) {
		if t.TransactionDate.Before(before) {
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- fixed deposits ---

func (s *Store) FindFixedDepositByID(_ context.Context, fixedDepositID string) (*domain.FixedDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fd, ok := s.deposits[fixedDepositID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &fd, nil
}

func (s *Store) FindFixedDepositByNumber(ctx context.Context, fdNumber string) (*domain.FixedDeposit, error) {
	s.mu.RLock()
	id, ok := s.fdByNumber[fdNumber]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindFixedDepositByID(ctx, id)
}

func (s *Store) FindFixedDepositByOpeningTransaction(_ context.Context, transactionID string) (*domain.FixedDeposit, error) {
	fds := s.filterDeposits(func(fd domain.FixedDeposit) bool { return fd.OpeningTransactionID == transactionID })
	if len(fds) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &fds[0], nil
}

func (s *Store) ListFixedDepositsByCustomer(_ context.Context, customerID string) ([]domain.FixedDeposit, error) {
	return s.filterDeposits(func(fd domain.FixedDeposit) bool { return fd.CustomerID == customerID }), nil
}

func (s *Store) ListFixedDepositsByFundingAccount(_ context.Context, accountID string) ([]domain.FixedDeposit, error) {
	return s.filterDeposits(func(fd domain.FixedDeposit) bool { return fd.FundingAccountID == accountID }), nil
}

func (s *Store) ListMaturedFixedDeposits(_ context.Context, asOf time.Time) ([]domain.FixedDeposit, error) {
	out := s.filterDeposits(func(fd domain.FixedDeposit) bool {
		return fd.Status == domain.FixedDepositActive && fd.IsMatured(asOf)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaturityDate.Equal(out[j].MaturityDate) {
			return out[i].FDNumber < out[j].FDNumber
		}
		return out[i].MaturityDate.Before(out[j].MaturityDate)
	})
	return out, nil
}

func (s *Store) FixedDepositNumberExists(_ context.Context, fdNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.fdByNumber[fdNumber]
	return ok, nil
}

func (s *Store) filterDeposits(keep func(domain.FixedDeposit) bool) []domain.FixedDeposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.FixedDeposit{}
	for _, fd := range s.deposits {
		if keep(fd) {
			out = append(out, fd)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].FDNumber > out[j].FDNumber
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

// --- interest postings ---

func (s *Store) FindPosting(_ context.Context, resourceID, periodKey string) (*domain.InterestPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.postings[postingKey(resourceID, periodKey)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPostingsByResource(_ context.Context, resourceID string) ([]domain.InterestPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.InterestPosting{}
	for _, p := range s.postings {
		if p.ResourceID == resourceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodStart.Equal(out[j].PeriodStart) {
			return out[i].PeriodKey > out[j].PeriodKey
		}
		return out[i].PeriodStart.After(out[j].PeriodStart)
	})
	return out, nil
}

// --- audit ---

func (s *Store) ListAuditLogsByResource(_ context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.AuditLog{}
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		e := s.auditLogs[i]
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListAuditLogsByActor(_ context.Context, actor string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		hasCursor bool
		cursorTS  time.Time
		cursorID  string
	)
	if nextToken != nil && *nextToken != "" {
		var err error
		cursorTS, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		hasCursor = true
	}

	s.mu.RLock()
	matches := []domain.AuditLog{}
	for _, e := range s.auditLogs {
		if e.Actor != actor {
			continue
		}
		if hasCursor && !pagination.Before(e.Timestamp, e.AuditID, cursorTS, cursorID) {
			continue
		}
		matches = append(matches, e)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Timestamp.Equal(matches[j].Timestamp) {
			return matches[i].AuditID > matches[j].AuditID
		}
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})

	if len(matches) <= limit {
		return matches, nil, nil
	}
	page := matches[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.Timestamp, last.AuditID)
	return page, &token, nil
}
