package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// DropRateRepository stores one row per pack so every instance reads the
// same table. A save is a single upsert and therefore atomic per pack.
type DropRateRepository struct {
	db *pgxpool.Pool
}

// NewDropRateRepository creates a new DropRateRepository
func NewDropRateRepository(db *pgxpool.Pool) *DropRateRepository {
	return &DropRateRepository{db: db}
}

// GetRates returns (nil, nil) when the pack has no row
func (r *DropRateRepository) GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error) {
	query := `
		SELECT pack_type, common_rate, rare_rate, sr_rate, ssr_rate, ur_rate, updated_at
		FROM drop_rates
		WHERE pack_type = $1
	`

	var (
		table                        domain.DropRateTable
		common, rare, sr, ssr, urate float64
	)
	err := r.db.QueryRow(ctx, query, packType).Scan(
		&table.PackType,
		&common,
		&rare,
		&sr,
		&ssr,
		&urate,
		&table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(errMsgQueryDropRates, err)
	}

	table.Rates = domain.RateMap{
		domain.TierCommon: common,
		domain.TierRare:   rare,
		domain.TierSR:     sr,
		domain.TierSSR:    ssr,
		domain.TierUR:     urate,
	}
	return &table, nil
}

// SaveRates replaces the pack's five rates in one statement
func (r *DropRateRepository) SaveRates(ctx context.Context, table domain.DropRateTable) error {
	query := `
		INSERT INTO drop_rates (pack_type, common_rate, rare_rate, sr_rate, ssr_rate, ur_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pack_type) DO UPDATE SET
			common_rate = EXCLUDED.common_rate,
			rare_rate   = EXCLUDED.rare_rate,
			sr_rate     = EXCLUDED.sr_rate,
			ssr_rate    = EXCLUDED.ssr_rate,
			ur_rate     = EXCLUDED.ur_rate,
			updated_at  = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		table.PackType,
		table.Rates[domain.TierCommon],
		table.Rates[domain.TierRare],
		table.Rates[domain.TierSR],
		table.Rates[domain.TierSSR],
		table.Rates[domain.TierUR],
		table.UpdatedAt,
	)
	if err != nil {
		return dbError(errMsgSaveDropRates, err)
	}
	return nil
}

// ListPackTypes returns configured packs in lexical order
func (r *DropRateRepository) ListPackTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT pack_type FROM drop_rates ORDER BY pack_type`)
	if err != nil {
		return nil, dbError(errMsgListPacks, err)
	}

	packs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dbError(errMsgListPacks, err)
	}
	if packs == nil {
		packs = []string{}
	}
	return packs, nil
}
