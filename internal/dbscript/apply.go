package dbscript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// ErrApplyUnsupported is returned by Apply for dialects without a driver here.
var ErrApplyUnsupported = errors.New("applying scripts is only supported for postgresql and sqlite")

// Apply runs script against the database at dsn. For PostgreSQL dsn is a
// connection string; for SQLite it is a file path or a modernc DSN.
func Apply(ctx context.Context, d Dialect, dsn, script string) error {
	switch d {
	case PostgreSQL:
		return applyPostgres(ctx, dsn, script)
	case SQLite:
		return applySQLite(ctx, dsn, script)
	default:
		return fmt.Errorf("%w: %s", ErrApplyUnsupported, d)
	}
}

// applyPostgres relies on Exec without arguments using the simple query
// protocol, which accepts several statements in one call.
func applyPostgres(ctx context.Context, dsn, script string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, script); err != nil {
		return fmt.Errorf("failed to apply script: %w", err)
	}
	return nil
}

func applySQLite(ctx context.Context, dsn, script string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return execSQLite(ctx, db, script)
}

func execSQLite(ctx context.Context, db *sql.DB, script string) error {
	if _, err := db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to apply script: %w", err)
	}
	return nil
}
