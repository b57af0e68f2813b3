package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestManagersImplementInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager(nil)
	var _ RepositoryManager = NewInMemoryRepositoryManager()
}

func TestPostgresFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager(db)

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &logs.PostgresRepository{}, m.Logs(db))
}

func TestPostgresWithTx_CommitsAndRollsBack(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, m.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		assert.NotNil(t, tx)
		return nil
	}))

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := m.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		return errors.New("fail")
	})
	require.EqualError(t, err, "fail")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPing(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectPing()
	require.NoError(t, m.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, m.Ping(context.Background()))
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	require.NoError(t, m.RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	require.EqualError(t, m.RunMigrations(context.Background(), db), "boom")
}

func TestInMemoryManager_SharesStores(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx, nil))
	require.NoError(t, m.Ping(ctx))

	u, err := m.Users(nil).Create(ctx, &models.User{Email: "a@b.com"})
	require.NoError(t, err)

	err = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		got, err := m.Users(tx).LockByID(ctx, u.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "a@b.com", got.Email)
		return nil
	})
	require.NoError(t, err)

	_, err = m.UserStore().FindByID(ctx, u.ID)
	require.NoError(t, err)
}
