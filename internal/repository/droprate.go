package repository

import (
	"context"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// DropRate defines the interface for drop-rate table persistence.
// SaveRates must replace the whole table for a pack in one atomic step.
type DropRate interface {
	// GetRates returns (nil, nil) when the pack has never been configured
	GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error)
	SaveRates(ctx context.Context, table domain.DropRateTable) error
	ListPackTypes(ctx context.Context) ([]string, error)
}
