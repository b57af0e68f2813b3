// Package repomanager vends repository implementations for one storage
// backend and owns the backend-wide concerns: schema migrations,
// transactions and liveness.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Logs(db dbx.DBTX) logs.Repository
	// WithTx runs fn inside a transaction; repositories obtained from the
	// handle passed to fn take part in it.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Ping(ctx context.Context) error
}
