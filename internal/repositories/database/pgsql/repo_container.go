package pgsql

import (
	portsrepo "github.com/SscSPs/core_banking_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store serves every repository port from one PostgreSQL pool.
type Store struct {
	BaseRepository
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// NewStore creates a store over the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool}}
}

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.NewRepositoryProviderFromStore(NewStore(dbPool))
}
