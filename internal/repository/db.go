package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver (cgo-free)
)

const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite"
)

// Config holds connection settings for the record store.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	DialTimeout  time.Duration
}

// DB wraps database/sql with driver awareness so the same queries run on
// Postgres (production) and sqlite (default local store, tests).
type DB struct {
	sql    *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects to the store named by the DSN. postgres:// DSNs use pgx;
// anything else is treated as a sqlite file path (the original default is a
// local accounting.db). The schema is migrated on open.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := driverSQLite
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = driverPostgres
	}

	logger.Info("connecting to database", "driver", driver)
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = sqlDB.Close()
		return nil, err
	}

	db := &DB{sql: sqlDB, driver: driver, logger: logger}
	if err := db.migrate(ctx); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// Close closes the database connection gracefully.
func (db *DB) Close() {
	db.logger.Info("closing database connection")
	if err := db.sql.Close(); err != nil {
		db.logger.Error("failed to close database", "error", err)
	}
}

// HealthCheck pings the store to catch DSN issues early.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.sql.PingContext(ctx)
}

// rebind converts ?-placeholders to $N for the Postgres driver. Queries are
// written once with ? and adapted at execution time.
func (db *DB) rebind(query string) string {
	if db.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// isUniqueViolation reports whether err looks like a unique-index conflict on
// either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "UNIQUE constraint") ||
		strings.Contains(s, "unique constraint")
}
