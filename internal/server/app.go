// Package server assembles the application: it opens the stores selected
// by the configuration, builds the services and runs the HTTP and gRPC
// servers until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/dsalog/internal/logging"
	"github.com/dmitrijs2005/dsalog/internal/server/auth"
	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/metrics"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/dsalog/internal/server/services"
	"github.com/dmitrijs2005/dsalog/internal/server/storage"

	gs "github.com/dmitrijs2005/dsalog/internal/server/grpc"
	hs "github.com/dmitrijs2005/dsalog/internal/server/http"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *redis.Client
	httpServer *hs.Server
	grpcServer *gs.GRPCServer
}

// NewApp connects to the configured stores, applies migrations and builds
// both servers. Logs go to stdout as JSON.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (_ *App, err error) {
	gin.SetMode(c.GinMode)

	app := &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	var manager repomanager.RepositoryManager
	if c.UsesMemoryStore() {
		logger.Warn(ctx, "using in-memory store; data is lost on restart")
		manager = repomanager.NewInMemoryRepositoryManager()
	} else {
		app.db, err = repomanager.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		manager = repomanager.NewPostgresRepositoryManager(app.db)
	}
	if err = manager.RunMigrations(ctx, app.db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(c.SecretKey)
	if err != nil {
		return nil, err
	}

	deps := services.UserServiceDeps{Hasher: hasher, Tokens: tokens, Logger: logger}

	if c.RedisURL != "" {
		app.redis, err = revocations.Connect(ctx, c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		deps.Revocations = revocations.NewRedisStore(app.redis)
	} else {
		logger.Info(ctx, "REDIS_URL not set; logout will not revoke tokens")
	}

	if c.S3Bucket != "" {
		photos, err := storage.NewS3Presigner(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		deps.Photos = photos
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	us := services.NewUserService(app.db, manager, c, deps)
	ls := services.NewLogService(app.db, manager, logger)

	app.httpServer = hs.NewServer(c, logger, us, ls, manager, m)
	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, manager)

	return app, nil
}

// Run serves HTTP and gRPC until ctx is cancelled, a termination signal
// arrives or either server fails, then releases the stores.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.httpServer.Run(ctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := app.grpcServer.Run(ctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server failure", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
