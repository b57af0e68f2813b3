// Package cli implements the operator commands shipped next to the server:
// applying database migrations and producing password hashes.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dmitrijs2005/dsalog/internal/flagx"
	"github.com/dmitrijs2005/dsalog/internal/logging"
	"github.com/dmitrijs2005/dsalog/internal/server/auth"
	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/repositories/repomanager"
)

// ErrUsage is returned when the command line names no known command.
var ErrUsage = errors.New("usage error")

const usage = `Usage: dsalog-cli <command> [flags]

Commands:
  migrate          apply database migrations (-d DSN, -e env file)
  hash-password    read a password without echo and print its bcrypt hash (-b cost)
  help             show this message
`

type App struct {
	in     *bufio.Reader
	fd     int
	out    io.Writer
	logger logging.Logger

	loadConfig func(args []string) (*config.Config, error)
	migrate    func(ctx context.Context, dsn string) error
}

func NewApp(stdin *os.File, out io.Writer, logger logging.Logger) *App {
	return &App{
		in:         bufio.NewReader(stdin),
		fd:         int(stdin.Fd()),
		out:        out,
		logger:     logger.With("module", "cli"),
		loadConfig: config.LoadConfig,
		migrate:    migratePostgres,
	}
}

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "migrate":
		return a.runMigrate(ctx, args[1:])
	case "hash-password":
		return a.hashPassword(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (a *App) runMigrate(ctx context.Context, args []string) error {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.UsesMemoryStore() {
		return errors.New("the in-memory store has no schema to migrate")
	}

	a.logger.Info(ctx, "applying migrations")
	if err := a.migrate(ctx, cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.logger.Info(ctx, "migrations applied")
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func migratePostgres(ctx context.Context, dsn string) error {
	db, err := repomanager.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return repomanager.NewPostgresRepositoryManager(db).RunMigrations(ctx, db)
}

func (a *App) hashPassword(args []string) error {
	cost := auth.DefaultCost
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		c, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		cost = c
	}

	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cost, "b", cost, "bcrypt cost")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-b"})); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cost)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, hash)
	return nil
}
