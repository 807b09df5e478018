// Package bootstrap wires the configured storage backend for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"ortoflow/internal/config"
	"ortoflow/internal/core/numerator"
	"ortoflow/internal/core/tx"
	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/domain/intake"
	"ortoflow/internal/infrastructure/storage/postgres"
	"ortoflow/internal/infrastructure/storage/postgres/catalog_repo"
	"ortoflow/internal/infrastructure/storage/sqlite"
	"ortoflow/pkg/logger"
)

// Storage is the set of stores backing one process.
type Storage struct {
	Sequences numerator.Store
	Products  product.Repository
	Tx        tx.Manager

	// Journal is nil when journaling is disabled or unsupported by the driver.
	Journal intake.Journal

	// Ping checks the backing database.
	Ping func(ctx context.Context) error

	close func()
}

// Close releases database connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects to the database selected by cfg.Database.Driver.
func OpenStorage(ctx context.Context, cfg config.Config) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*Storage, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolCfg.MinConns = cfg.Database.MinConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrate {
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	txm := postgres.NewTxManager(pool)
	s := &Storage{
		Sequences: postgres.NewSequenceStore(pool),
		Products:  catalog_repo.NewProductRepo(txm),
		Tx:        txm,
		Ping:      pool.Ping,
		close:     pool.Close,
	}

	if cfg.Journal.Enabled {
		journal, err := postgres.NewParseJournal(txm, cfg.Journal.CompressThreshold)
		if err != nil {
			pool.Close()
			return nil, err
		}
		s.Journal = journal
	}

	postgres.LogPoolStats(ctx, pool.Pool)
	return s, nil
}

func openSQLite(ctx context.Context, cfg config.Config) (*Storage, error) {
	db, err := sqlite.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Journal.Enabled {
		logger.Info(ctx, "parse journal is not available on sqlite, disabled")
	}
	return &Storage{
		Sequences: sqlite.NewSequenceStore(db),
		Products:  sqlite.NewProductRepo(db),
		Tx:        tx.None,
		Ping:      db.PingContext,
		close:     func() { _ = db.Close() },
	}, nil
}
