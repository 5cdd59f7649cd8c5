package services

import (
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/platform/config"
)

// NewServiceContainer wires every service over one repository provider.
// A nil clock uses the wall clock.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clock Clock) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger owns the lock table, so exactly one instance must back every service.
	ledger := NewAccountLedger(repos.AccountRepo, cfg.Ledger.Policies, LockConfig{
		Timeout:     cfg.Ledger.LockTimeout,
		MaxAttempts: cfg.Ledger.LockMaxAttempts,
		Backoff:     cfg.Ledger.LockBackoff,
	})

	container.Audit = NewAuditRecorder(repos.AuditLogRepo, repos.Writer, clock)
	container.Account = NewAccountService(ledger, repos.AccountRepo, repos.Writer, container.Audit, clock)
	container.Transaction = NewTransactionProcessor(ledger, repos.AccountRepo, repos.TransactionRepo, repos.Writer, container.Audit, clock)
	container.Interest = NewInterestEngine(repos, ledger, container.Transaction, container.Audit, InterestConfig{
		DayCount:     cfg.Interest.DayCount,
		Workers:      cfg.Interest.Workers,
		TenureRates:  cfg.FixedDeposit.TenureRates,
		SavingsRates: cfg.Interest.SavingsRates,
	}, clock)
	container.FixedDeposit = NewFixedDepositManager(repos, container.Transaction, container.Interest, container.Audit, FixedDepositConfig{
		MinPrincipal:      cfg.FixedDeposit.MinPrincipal,
		PrematurePenalty:  cfg.FixedDeposit.PrematurePenalty,
		PrematureBaseRate: cfg.FixedDeposit.PrematureBaseRate,
		TenureRates:       cfg.FixedDeposit.TenureRates,
		DayCount:          cfg.Interest.DayCount,
	}, clock)

	return container
}
