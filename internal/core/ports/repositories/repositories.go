package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo         AccountReader
	TransactionRepo     TransactionReader
	FixedDepositRepo    FixedDepositReader
	InterestPostingRepo InterestPostingReader
	AuditLogRepo        AuditLogReader
	Writer              LedgerWriter
}

// LedgerStore is implemented by storage backends that serve every port.
type LedgerStore interface {
	AccountReader
	TransactionReader
	FixedDepositReader
	InterestPostingReader
	AuditLogReader
	LedgerWriter
}

// NewRepositoryProviderFromStore exposes one store through every port.
func NewRepositoryProviderFromStore(store LedgerStore) RepositoryProvider {
	return RepositoryProvider{
		AccountRepo:         store,
		TransactionRepo:     store,
		FixedDepositRepo:    store,
		InterestPostingRepo: store,
		AuditLogRepo:        store,
		Writer:              store,
	}
}
