// Package backend opens the store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mergington/activities/config"
	"github.com/mergington/activities/internal/store"
	"github.com/mergington/activities/internal/store/postgres"
	"github.com/mergington/activities/internal/store/sqlite"
	"github.com/mergington/activities/pkg/database"
)

// Open connects to the configured database, applies migrations and returns
// the store. The caller owns the store and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (store.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, dsn, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, dsn, cfg.MaxConns, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.New(pool), nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, dsn, cfg.MaxConns, logger)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return sqlite.New(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
