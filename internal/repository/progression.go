package repository

import (
	"context"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// Progression defines the interface for user progression persistence
type Progression interface {
	GetProgression(ctx context.Context, userID string) (*domain.UserProgression, error)
	BeginTx(ctx context.Context) (ProgressionTx, error)
}

// ProgressionTx is one atomic unit of work over a single user's progression.
// Nothing written through it is visible to other readers until Commit succeeds.
type ProgressionTx interface {
	Tx
	// GetProgressionForUpdate reads the record and holds it until the tx ends.
	// Returns domain.ErrUserNotFound if the user has no record.
	GetProgressionForUpdate(ctx context.Context, userID string) (*domain.UserProgression, error)
	UpdateLevelAndExp(ctx context.Context, userID string, level int, exp int64) error
	UpdateEnergy(ctx context.Context, userID string, energy int) error
	UpdateRubies(ctx context.Context, userID string, rubies int64) error
	InsertNotification(ctx context.Context, n *domain.Notification) error
	InsertTransaction(ctx context.Context, t *domain.CurrencyTransaction) error
}

// ProgressionProvisioner creates the starting row for a user. It is idempotent:
// an existing row is returned unchanged.
type ProgressionProvisioner interface {
	CreateProgression(ctx context.Context, userID string) (*domain.UserProgression, error)
}
