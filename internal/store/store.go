// Package store holds the SQL for every registry table. Functions take a DBTX so the
// same statements run against the pool or inside a transaction.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"spa-registry/internal/common/database"
	apperrors "spa-registry/internal/common/errors"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Schema returns the embedded DDL.
func Schema() string {
	return schemaSQL
}

// EnsureSchema applies the embedded DDL. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

func newReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func nullIfBlank(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.TrimSpace(s)
}

// classifyWriteErr turns constraint failures into caller errors and wraps the rest.
func classifyWriteErr(op string, err error) error {
	if database.IsUniqueViolation(err) {
		return apperrors.NewValidationError("duplicate value",
			apperrors.FieldError{Field: constraintField(database.ConstraintName(err)), Message: "already registered"})
	}
	if database.IsForeignKeyViolation(err) {
		return apperrors.NewValidationError("referenced record does not exist",
			apperrors.FieldError{Field: constraintField(database.ConstraintName(err)), Message: "unknown reference"})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// constraintField guesses the column from a PostgreSQL constraint name such as spas_email_key.
func constraintField(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "reference"):
		return "reference_number"
	case strings.Contains(constraint, "spa_id"):
		return "spa_id"
	case strings.Contains(constraint, "pending"):
		return "request_status"
	case constraint == "":
		return "(unknown)"
	}
	return constraint
}

// setClause builds "col = $n" fragments for the columns present in fields, in the
// order of allowed. Unknown columns are rejected.
func setClause(allowed []string, fields map[string]interface{}, args []interface{}) ([]string, []interface{}, error) {
	known := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		known[c] = struct{}{}
	}
	for c := range fields {
		if _, ok := known[c]; !ok {
			return nil, nil, apperrors.NewInternalError(fmt.Sprintf("column %q is not updatable", c), nil)
		}
	}

	var parts []string
	for _, c := range allowed {
		v, ok := fields[c]
		if !ok {
			continue
		}
		args = append(args, v)
		parts = append(parts, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	return parts, args, nil
}
