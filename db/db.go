// Package db provides database connectivity and migration functionality.
// It centralizes establishing the pgx connection pool and running schema
// migrations, so the rest of the application only ever sees a ready pool.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Postgres database driver and file source driver for golang-migrate,
	// imported for their side effect of registering themselves.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	// The migrate postgres driver uses database/sql with lib/pq when given a DSN.
	_ "github.com/lib/pq"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

// NewPool establishes a pgx connection pool using the provided configuration
// and verifies connectivity with a ping before returning it.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.MaxSize,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// A bounded context keeps startup from hanging when the database is
	// unreachable.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close() // Clean up on connection failure
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// migrateDSN constructs a DSN string suitable for golang-migrate, whose
// postgres driver expects the lib/pq format rather than pgx's.
func migrateDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies any pending database migrations from the specified
// migrations directory. migrate.ErrNoChange is not an error: it simply means
// the schema is already current.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, migrateDSN(cfg))
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("Warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("Warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	return nil
}
