package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/yamiko-app/yamiko/internal/database/migrations"
	"github.com/yamiko-app/yamiko/internal/logger"
)

// Migrate applies every pending embedded migration and returns the resulting
// schema version. goose runs over database/sql, so a short-lived stdlib
// connection is opened alongside the pgx pool.
func Migrate(ctx context.Context, connString string) (int64, error) {
	var version int64
	err := withMigrationDB(connString, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
		}

		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReadMigrationVer, err)
		}
		version = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info(LogMsgMigrationsApplied, "version", version)
	return version, nil
}

// MigrationStatus logs the applied state of every embedded migration
func MigrationStatus(ctx context.Context, connString string) error {
	return withMigrationDB(connString, func(db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReadMigrationVer, err)
		}
		return nil
	})
}

func withMigrationDB(connString string, fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToOpenMigrationDB, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(migrationDialect); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetDialect, err)
	}

	return fn(db)
}
