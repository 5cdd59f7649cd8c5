package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/utils"
	"github.com/SscSPs/core_banking_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxReferenceLength = 64
	defaultPageSize    = 20
	maxPageSize        = 100
)

type transactionProcessor struct {
	BaseService
	ledger       *AccountLedger
	accounts     portsrepo.AccountReader
	transactions portsrepo.TransactionReader
	writer       portsrepo.LedgerWriter
	audit        portssvc.AuditSvcFacade

	mu      sync.Mutex
	pending map[string][]*pendingRequest
}

// pendingRequest tracks a request between validation and lock acquisition,
// the only window in which it may be cancelled.
type pendingRequest struct {
	cancel    context.CancelFunc
	locked    bool
	cancelled bool
}

// NewTransactionProcessor creates the single entry point for balance changes.
func NewTransactionProcessor(
	ledger *AccountLedger,
	accounts portsrepo.AccountReader,
	transactions portsrepo.TransactionReader,
	writer portsrepo.LedgerWriter,
	audit portssvc.AuditSvcFacade,
	clock Clock,
) portssvc.TransactionSvcFacade {
	return &transactionProcessor{
		BaseService:  BaseService{clock: clock},
		ledger:       ledger,
		accounts:     accounts,
		transactions: transactions,
		writer:       writer,
		audit:        audit,
		pending:      make(map[string][]*pendingRequest),
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionProcessor)(nil)

func (p *transactionProcessor) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	return p.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestDeposit,
		SourceAccountID: accountID,
		Amount:          amount,
		Description:     description,
		Reference:       reference,
		Actor:           actor,
	})
}

func (p *transactionProcessor) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	return p.Execute(ctx, domain.TransactionRequest{
		Type:            domain.RequestWithdrawal,
		SourceAccountID: accountID,
		Amount:          amount,
		Description:     description,
		Reference:       reference,
		Actor:           actor,
	})
}

func (p *transactionProcessor) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, description, reference, actor string) (*domain.Transaction, error) {
	return p.Execute(ctx, domain.TransactionRequest{
		Type:                 domain.RequestTransfer,
		SourceAccountID:      fromAccountID,
		DestinationAccountID: toAccountID,
		Amount:               amount,
		Description:          description,
		Reference:            reference,
		Actor:                actor,
	})
}

// Execute validates, locks, mutates and commits one request. Nothing is
// persisted or audited when it fails.
func (p *transactionProcessor) Execute(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	if err := p.validate(&req); err != nil {
		p.LogWarn(ctx, err, "Transaction request rejected", slog.String("type", string(req.Type)), slog.String("reference", req.Reference))
		return nil, err
	}
	logAttrs := []any{
		slog.String("reference", req.Reference),
		slog.String("type", string(req.Type)),
		slog.String("mode", string(req.Mode)),
		slog.String("amount", req.Amount.StringFixed(2)),
	}

	if existing, err := p.replay(ctx, req); err != nil || existing != nil {
		if existing != nil {
			p.LogInfo(ctx, "Replayed committed transaction", logAttrs...)
		}
		return existing, err
	}

	source, destination, err := p.loadParticipants(ctx, req)
	if err != nil {
		p.LogWarn(ctx, err, "Transaction participants rejected", logAttrs...)
		return nil, err
	}

	pr, lockCtx := p.register(ctx, req.Reference)
	lockIDs := []string{source.AccountID}
	if destination != nil {
		lockIDs = append(lockIDs, destination.AccountID)
	}
	session, err := p.ledger.Lock(lockCtx, lockIDs...)
	if err != nil {
		cancelled := p.unregister(req.Reference, pr)
		if cancelled {
			p.LogInfo(ctx, "Pending transaction cancelled", logAttrs...)
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCancelled, req.Reference)
		}
		p.LogWarn(ctx, err, "Could not lock accounts", logAttrs...)
		return nil, err
	}
	defer session.Release()
	if !p.markLocked(pr) {
		p.unregister(req.Reference, pr)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCancelled, req.Reference)
	}
	defer p.unregister(req.Reference, pr)

	// From here on the request runs to completion.
	ctx = context.WithoutCancel(ctx)

	if existing, err := p.replay(ctx, req); err != nil || existing != nil {
		return existing, err
	}
	if req.Guard != nil {
		if err := req.Guard(ctx); err != nil {
			p.LogWarn(ctx, err, "Transaction guard rejected request", logAttrs...)
			return nil, err
		}
	}

	now := p.Now()
	before := balancesOf(session, lockIDs)
	rows, err := p.apply(session, req, source, destination, now)
	if err != nil {
		p.LogWarn(ctx, err, "Transaction failed", logAttrs...)
		return nil, err
	}
	primary := rows[0]

	var linked domain.LinkedRecords
	if req.Link != nil {
		if linked, err = req.Link(primary); err != nil {
			p.LogError(ctx, err, "Failed to build linked records", logAttrs...)
			return nil, err
		}
	}

	auditEntry := linked.Audit
	if auditEntry == nil {
		entry, err := p.audit.Build(domain.AuditResourceTransaction, req.Reference, auditAction(req),
			before, transactionSnapshot{Balances: balancesOf(session, lockIDs), Rows: rows}, req.Actor)
		if err != nil {
			return nil, err
		}
		auditEntry = &entry
	}

	batch := portsrepo.LedgerBatch{
		AccountUpdates: session.Updates(req.Actor, now),
		Transactions:   rows,
		AuditLogs:      []domain.AuditLog{*auditEntry},
	}
	if linked.NewFixedDeposit != nil {
		batch.NewFixedDeposits = append(batch.NewFixedDeposits, *linked.NewFixedDeposit)
	}
	if linked.FixedDepositUpdate != nil {
		batch.FixedDepositUpdates = append(batch.FixedDepositUpdates, portsrepo.FixedDepositUpdate{
			FixedDeposit:   *linked.FixedDepositUpdate,
			ExpectedStatus: linked.FixedDepositExpectedStatus,
		})
	}
	if linked.InterestPosting != nil {
		batch.InterestPostings = append(batch.InterestPostings, *linked.InterestPosting)
	}

	if err := p.writer.CommitBatch(ctx, batch); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReference) {
			if existing, replayErr := p.replay(ctx, req); replayErr != nil || existing != nil {
				return existing, replayErr
			}
		}
		p.LogError(ctx, err, "Failed to commit transaction", logAttrs...)
		return nil, err
	}

	p.LogInfo(ctx, "Transaction committed", append(logAttrs, slog.String("transaction_id", primary.TransactionID))...)
	return &primary, nil
}

func (p *transactionProcessor) validate(req *domain.TransactionRequest) error {
	if req.Actor == "" {
		return fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if req.SourceAccountID == "" {
		return fmt.Errorf("%w: account is required", apperrors.ErrValidation)
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	switch {
	case req.Type == domain.RequestTransfer && req.DestinationAccountID == "":
		return fmt.Errorf("%w: destination account is required", apperrors.ErrValidation)
	case req.Type == domain.RequestTransfer && req.DestinationAccountID == req.SourceAccountID:
		return apperrors.ErrSameAccount
	case req.Type != domain.RequestTransfer && req.DestinationAccountID != "":
		return fmt.Errorf("%w: destination is only valid for transfers", apperrors.ErrValidation)
	}
	if len(req.Reference) > maxReferenceLength {
		return fmt.Errorf("%w: reference longer than %d characters", apperrors.ErrValidation, maxReferenceLength)
	}
	if req.Reference == "" {
		ref, err := newReference()
		if err != nil {
			return err
		}
		req.Reference = ref
	}
	if req.Mode == "" {
		req.Mode = req.Type.DefaultMode()
	}
	if owner, reserved := domain.ReservedReferenceMode(req.Reference); reserved && owner != req.Mode {
		return fmt.Errorf("%w: reference %q uses a reserved prefix", apperrors.ErrValidation, req.Reference)
	}
	return nil
}

func newReference() (string, error) {
	suffix, err := utils.GenerateSecureRandomString(8)
	if err != nil {
		return "", err
	}
	return "TXN" + strings.ToUpper(suffix), nil
}

// replay returns the primary row of an already committed reference, or nil.
// A reference committed by a different request is ErrDuplicateReference.
func (p *transactionProcessor) replay(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	rows, err := p.transactions.FindTransactionsByReference(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	primary := primaryOf(rows)
	if primary == nil {
		return nil, nil
	}
	if !sameRequest(*primary, req) {
		return nil, fmt.Errorf("%w: %s was used by a different transaction", apperrors.ErrDuplicateReference, req.Reference)
	}
	return primary, nil
}

// sameRequest compares the committed primary row with a repeated request.
// Description is not compared; system callers derive it per attempt.
func sameRequest(primary domain.Transaction, req domain.TransactionRequest) bool {
	want := domain.Debit
	if req.Type == domain.RequestDeposit {
		want = domain.Credit
	}
	return primary.AccountID == req.SourceAccountID &&
		primary.TransactionType == want &&
		primary.Mode == req.Mode &&
		primary.Amount.Equal(req.Amount) &&
		primary.CounterpartyAccountID == req.DestinationAccountID
}

func primaryOf(rows []domain.Transaction) *domain.Transaction {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) > 1 {
		for i := range rows {
			if rows[i].TransactionType == domain.Debit {
				return &rows[i]
			}
		}
	}
	return &rows[0]
}

func (p *transactionProcessor) loadParticipants(ctx context.Context, req domain.TransactionRequest) (*domain.Account, *domain.Account, error) {
	source, err := p.accounts.FindAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.SourceAccountID)
		}
		return nil, nil, err
	}
	if !source.IsActive() {
		return nil, nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountNotActive, source.AccountNumber, source.Status)
	}
	if req.Type != domain.RequestTransfer {
		return source, nil, nil
	}

	destination, err := p.accounts.FindAccountByID(ctx, req.DestinationAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDestinationNotFound, req.DestinationAccountID)
		}
		return nil, nil, err
	}
	if !destination.IsActive() {
		return nil, nil, fmt.Errorf("%w: destination account %s is %s", apperrors.ErrAccountNotActive, destination.AccountNumber, destination.Status)
	}
	return source, destination, nil
}

// apply mutates the session and builds the rows. The first row is the primary one.
func (p *transactionProcessor) apply(session *LedgerSession, req domain.TransactionRequest, source, destination *domain.Account, now time.Time) ([]domain.Transaction, error) {
	row := func(accountID string, t domain.TransactionType, balance decimal.Decimal, description string) domain.Transaction {
		return domain.Transaction{
			TransactionID:   uuid.NewString(),
			Reference:       req.Reference,
			AccountID:       accountID,
			TransactionType: t,
			Amount:          req.Amount,
			BalanceAfter:    balance,
			Mode:            req.Mode,
			Description:     description,
			Status:          domain.TransactionCompleted,
			CreatedBy:       req.Actor,
			TransactionDate: now,
		}
	}

	switch req.Type {
	case domain.RequestDeposit:
		balance, err := session.Credit(source.AccountID, req.Amount)
		if err != nil {
			return nil, err
		}
		return []domain.Transaction{row(source.AccountID, domain.Credit, balance, describe(req.Description, string(req.Mode)))}, nil

	case domain.RequestWithdrawal:
		balance, err := session.Debit(source.AccountID, req.Amount)
		if err != nil {
			return nil, err
		}
		return []domain.Transaction{row(source.AccountID, domain.Debit, balance, describe(req.Description, string(req.Mode)))}, nil

	default:
		debitBalance, err := session.Debit(source.AccountID, req.Amount)
		if err != nil {
			return nil, err
		}
		creditBalance, err := session.Credit(destination.AccountID, req.Amount)
		if err != nil {
			return nil, err
		}
		debit := row(source.AccountID, domain.Debit, debitBalance, describe(req.Description, "Transfer to "+destination.AccountNumber))
		debit.CounterpartyAccountID = destination.AccountID
		debit.CounterpartyAccountNumber = destination.AccountNumber
		credit := row(destination.AccountID, domain.Credit, creditBalance, describe(req.Description, "Transfer from "+source.AccountNumber))
		credit.CounterpartyAccountID = source.AccountID
		credit.CounterpartyAccountNumber = source.AccountNumber
		return []domain.Transaction{debit, credit}, nil
	}
}

func describe(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}

func auditAction(req domain.TransactionRequest) string {
	switch {
	case req.Mode == domain.ModeInterest:
		return domain.ActionInterestPosted
	case req.Type == domain.RequestWithdrawal:
		return domain.ActionWithdrawal
	case req.Type == domain.RequestTransfer:
		return domain.ActionTransfer
	default:
		return domain.ActionDeposit
	}
}

type balanceSnapshot struct {
	AccountID     string `json:"accountID"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
}

type transactionSnapshot struct {
	Balances []balanceSnapshot   `json:"balances"`
	Rows     []domain.Transaction `json:"transactions"`
}

func balancesOf(session *LedgerSession, ids []string) []balanceSnapshot {
	out := make([]balanceSnapshot, 0, len(ids))
	for _, id := range ids {
		account, err := session.Account(id)
		if err != nil {
			continue
		}
		out = append(out, balanceSnapshot{AccountID: id, AccountNumber: account.AccountNumber, Balance: account.Balance.StringFixed(2)})
	}
	return out
}

// --- pending request registry ---

func (p *transactionProcessor) register(ctx context.Context, reference string) (*pendingRequest, context.Context) {
	lockCtx, cancel := context.WithCancel(ctx)
	pr := &pendingRequest{cancel: cancel}
	p.mu.Lock()
	p.pending[reference] = append(p.pending[reference], pr)
	p.mu.Unlock()
	return pr, lockCtx
}

// markLocked flips a request out of the cancellable state. It reports false
// when a cancellation won the race.
func (p *transactionProcessor) markLocked(pr *pendingRequest) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pr.cancelled {
		return false
	}
	pr.locked = true
	return true
}

// unregister drops the request and reports whether it had been cancelled.
func (p *transactionProcessor) unregister(reference string, pr *pendingRequest) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.pending[reference]
	for i, e := range entries {
		if e == pr {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(p.pending, reference)
	} else {
		p.pending[reference] = entries
	}
	pr.cancel()
	return pr.cancelled
}

// Cancel aborts every request with this reference that is still waiting for
// locks. Requests already holding locks cannot be cancelled.
func (p *transactionProcessor) Cancel(ctx context.Context, reference, actor string) error {
	if reference == "" || actor == "" {
		return fmt.Errorf("%w: reference and actor are required", apperrors.ErrValidation)
	}

	p.mu.Lock()
	cancelled, executing := 0, false
	for _, e := range p.pending[reference] {
		switch {
		case e.locked:
			executing = true
		case !e.cancelled:
			e.cancelled = true
			e.cancel()
			cancelled++
		}
	}
	p.mu.Unlock()

	if cancelled > 0 {
		p.LogInfo(ctx, "Cancelled pending transaction", slog.String("reference", reference), slog.String("actor", actor), slog.Int("requests", cancelled))
		return nil
	}
	if executing {
		return fmt.Errorf("%w: transaction %s is already executing", apperrors.ErrInvalidState, reference)
	}
	rows, err := p.transactions.FindTransactionsByReference(ctx, reference)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return fmt.Errorf("%w: transaction %s is already completed", apperrors.ErrInvalidState, reference)
	}
	return fmt.Errorf("%w: no pending transaction %s", apperrors.ErrNotFound, reference)
}

// --- queries ---

func (p *transactionProcessor) GetByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	rows, err := p.transactions.FindTransactionsByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, reference)
	}
	return rows, nil
}

func (p *transactionProcessor) ListTransactions(ctx context.Context, accountID string, page, size int) (*domain.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if _, err := p.accounts.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	rows, total, err := p.transactions.ListTransactionsByAccount(ctx, accountID, size, (page-1)*size)
	if err != nil {
		p.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.TransactionPage{Transactions: rows, Page: page, Size: size, Total: total}, nil
}

func (p *transactionProcessor) ListTransactionsByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after start", apperrors.ErrValidation)
	}
	if _, err := p.accounts.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return p.transactions.ListTransactionsByAccountAndDateRange(ctx, accountID, from, to)
}
