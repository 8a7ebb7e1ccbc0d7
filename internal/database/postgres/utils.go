package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// dbError tags a driver failure as a persistence error while keeping the cause
func dbError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, msg, err)
}

// requireOneRow turns an UPDATE that matched nothing into ErrUserNotFound
func requireOneRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
