// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spa-registry/internal/common/config"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the registry cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerialization       = "40001"
)

// PostgresClient owns the connection pool for the registry store.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool. Connectivity is checked separately with Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint failure.
func IsUniqueViolation(err error) bool {
	return pqCode(err) == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err references a missing parent row.
func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == pgForeignKeyViolation
}

// IsSerializationFailure reports whether the server aborted the transaction to keep it serializable.
func IsSerializationFailure(err error) bool {
	return pqCode(err) == pgSerialization
}

// ConstraintName returns the violated constraint, or "" when err is not a pq error.
func ConstraintName(err error) string {
	if pqErr, ok := asPQ(err); ok {
		return pqErr.Constraint
	}
	return ""
}

func pqCode(err error) string {
	if pqErr, ok := asPQ(err); ok {
		return string(pqErr.Code)
	}
	return ""
}

func asPQ(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}
