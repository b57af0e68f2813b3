package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/server/auth"
	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:       "k",
		TokenTTL:        time.Hour,
		CookieMaxAge:    time.Hour,
		BcryptCost:      bcrypt.MinCost,
		DefaultPhotoURL: "https://cdn.example.com/default.png",
	}
}

type testEnv struct {
	svc    *UserService
	mgr    *repomanager.InMemoryRepositoryManager
	tokens *auth.TokenService
	hasher *auth.BcryptHasher
	redis  *miniredis.Miniredis
}

type envOption func(*UserServiceDeps, *testEnv)

func withRevocations(t *testing.T) envOption {
	return func(d *UserServiceDeps, e *testEnv) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		d.Revocations = revocations.NewRedisStore(client)
		e.redis = mr
	}
}

func withPhotos(p *fakePresigner) envOption {
	return func(d *UserServiceDeps, _ *testEnv) { d.Photos = p }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("k")
	require.NoError(t, err)

	e := &testEnv{mgr: repomanager.NewInMemoryRepositoryManager(), tokens: tokens, hasher: hasher}
	deps := UserServiceDeps{Hasher: hasher, Tokens: tokens}
	for _, o := range opts {
		o(&deps, e)
	}
	e.svc = NewUserService(nil, e.mgr, testConfig(), deps)
	return e
}

func validSignup() models.SignupInput {
	return models.SignupInput{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "Passw0rdX"}
}

// fakePresigner returns canned values.
type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignPhotoUpload(_ context.Context, userID string) (*models.PhotoUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PhotoUpload{Key: "users/" + userID + "/photos/k", URL: "http://s3/put"}, nil
}

func (f *fakePresigner) PublicURL(key string) string { return "http://s3/bucket/" + key }

// failingUsers fails every call with err.
type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f failingUsers) FindByEmail(context.Context, string) (*models.User, error)  { return nil, f.err }
func (f failingUsers) FindByID(context.Context, string) (*models.User, error)     { return nil, f.err }
func (f failingUsers) LockByID(context.Context, string) (*models.User, error)     { return nil, f.err }
func (f failingUsers) UpdatePassword(context.Context, string, string, time.Time) error {
	return f.err
}
func (f failingUsers) UpdatePhoto(context.Context, string, string) error { return f.err }

// failingLogs fails every call with err.
type failingLogs struct{ err error }

func (f failingLogs) Create(context.Context, *models.LogEntry) (*models.LogEntry, error) {
	return nil, f.err
}
func (f failingLogs) ListByUser(context.Context, string) ([]*models.LogEntry, error) {
	return nil, f.err
}
func (f failingLogs) Update(context.Context, *models.LogEntry) (*models.LogEntry, error) {
	return nil, f.err
}
func (f failingLogs) Delete(context.Context, string, string) error { return f.err }

type failingManager struct{ err error }

func (m failingManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m failingManager) Users(dbx.DBTX) users.Repository             { return failingUsers{m.err} }
func (m failingManager) Logs(dbx.DBTX) logs.Repository               { return failingLogs{m.err} }
func (m failingManager) Ping(context.Context) error                  { return m.err }
func (m failingManager) WithTx(ctx context.Context, fn func(context.Context, dbx.DBTX) error) error {
	return fn(ctx, nil)
}

// failingHasher fails Hash and delegates the rest.
type failingHasher struct{ *auth.BcryptHasher }

func (failingHasher) Hash(string) (string, error) { return "", errBoom }
