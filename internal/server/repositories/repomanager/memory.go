package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every caller the same process-local
// repositories regardless of the handle passed in. Transactions only
// serialise; a failing fn does not roll back its writes.
type InMemoryRepositoryManager struct {
	txMu  sync.Mutex
	users *users.MemoryRepository
	logs  *logs.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		logs:  logs.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Logs(dbx.DBTX) logs.Repository {
	return m.logs
}

// UserStore exposes the concrete store for operations outside the
// Repository interface.
func (m *InMemoryRepositoryManager) UserStore() *users.MemoryRepository {
	return m.users
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Ping(context.Context) error {
	return nil
}
