package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/core_banking_ledger/internal/core/ports/services"
	"github.com/SscSPs/core_banking_ledger/internal/core/services"
	"github.com/SscSPs/core_banking_ledger/internal/platform/config"
	"github.com/SscSPs/core_banking_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	teller   = "teller-7"
	customer = "cust-42"
)

// fakeClock is a settable clock shared by every service in a test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			LockTimeout:     2 * time.Second,
			LockMaxAttempts: 5,
			LockBackoff:     5 * time.Millisecond,
			Policies:        domain.DefaultAccountPolicies,
		},
		FixedDeposit: config.FixedDepositConfig{
			MinPrincipal:      dec("1000.00"),
			PrematurePenalty:  dec("1.00"),
			PrematureBaseRate: dec("3.50"),
			TenureRates:       domain.DefaultTenureRates,
		},
		Interest: config.InterestConfig{DayCount: 365, Workers: 4},
	}
}

// ledgerSuite runs every service over a fresh in-memory store.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	clock *fakeClock
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)}
	s.store = memory.NewStore()
	s.repos = portsrepo.NewRepositoryProviderFromStore(s.store)
	s.svc = services.NewServiceContainer(testConfig(), s.repos, s.clock.Now)
}

// openAccount creates an account and funds it with an initial deposit.
func (s *ledgerSuite) openAccount(accountType domain.AccountType, initial string) domain.Account {
	account, err := s.svc.Account.CreateAccount(s.ctx, customer, accountType, teller)
	s.Require().NoError(err)
	if initial != "" {
		_, err = s.svc.Transaction.Deposit(s.ctx, account.AccountID, dec(initial), "initial funding", "", teller)
		s.Require().NoError(err)
	}
	return *account
}

func (s *ledgerSuite) balance(accountID string) string {
	b, err := s.svc.Account.GetBalance(s.ctx, accountID)
	s.Require().NoError(err)
	return b.StringFixed(2)
}
