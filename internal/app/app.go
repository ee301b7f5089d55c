// Package app wires configuration, storage and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/internal/application/auth"
	"github.com/alem-hub/gradebook/internal/application/records"
	"github.com/alem-hub/gradebook/internal/domain/account"
	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/internal/infrastructure/audit"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/filestore"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/gradebook/internal/infrastructure/spreadsheet"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// App holds the ready-to-use services.
type App struct {
	Records *records.Service
	Auth    *auth.Service

	log     *logger.Logger
	closers []func() error
}

// stores is one backend's implementation of the three persistence ports.
type stores struct {
	students student.Repository
	admins   account.AdminStore
	txlog    ledger.Log
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.AddCaller = !cfg.IsProduction()
	return logger.New(opts).With(logger.String("app", cfg.App.Name))
}

// New prepares storage for first use and builds the services. The caller
// must Close the returned App.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{log: log}

	var (
		st  stores
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendFile:
		st, err = a.fileStores(cfg)
	case config.BackendPostgres:
		st, err = a.postgresStores(ctx, cfg)
	default:
		err = fmt.Errorf("app: unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	txlog := st.txlog
	if cfg.Redis.Enabled {
		mirror, err := a.redisMirror(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		txlog = audit.NewTee(st.txlog, log, mirror)
	}

	a.Records = records.NewService(st.students, txlog, log).
		WithWorkbook(spreadsheet.New(log))
	a.Auth = auth.NewService(st.admins, st.students, log)

	log.Info("application ready",
		logger.String("backend", string(cfg.Storage.Backend)),
		logger.Bool("redis_mirror", cfg.Redis.Enabled),
	)
	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", logger.Err(err))
		}
	}
	a.closers = nil
}

func (a *App) fileStores(cfg *config.Config) (stores, error) {
	paths := filestore.NewPaths(cfg.Storage.DataDir)
	store := filestore.NewLineStore(a.log)

	if err := filestore.Bootstrap(store, paths); err != nil {
		return stores{}, fmt.Errorf("app: failed to prepare data directory: %w", err)
	}

	return stores{
		students: filestore.NewStudentRepository(store, paths),
		admins:   filestore.NewAdminStore(store, paths),
		txlog:    filestore.NewTransactionLog(store, paths),
	}, nil
}

func (a *App) postgresStores(ctx context.Context, cfg *config.Config) (stores, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pgCfg.OnRetry = a.logRetry("postgres")

	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, func() error { conn.Close(); return nil })

	if err := postgres.EnsureSchema(ctx, conn); err != nil {
		return stores{}, err
	}

	admins := postgres.NewAdminStore(conn)
	seeded, err := admins.SeedDefaultAdmin(ctx)
	if err != nil {
		return stores{}, err
	}
	if seeded {
		a.log.Info("default administrator seeded", logger.Username(account.DefaultAdminUsername))
	}

	return stores{
		students: postgres.NewStudentRepository(conn),
		admins:   admins,
		txlog:    postgres.NewTransactionLog(conn),
	}, nil
}

func (a *App) redisMirror(ctx context.Context, cfg *config.Config) (*redis.AuditMirror, error) {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.OnRetry = a.logRetry("redis")

	client, err := redis.NewClient(ctx, rc)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	return redis.NewAuditMirror(client, int64(cfg.Redis.MaxLen)), nil
}

func (a *App) logRetry(target string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		a.log.Warn("server not ready, retrying",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}
}
