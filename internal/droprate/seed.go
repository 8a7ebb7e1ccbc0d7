package droprate

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// SeedFile is the on-disk layout of the default drop-rate tables:
//
//	[packs.STANDARD]
//	COMMON = 60
//	RARE = 25
//	...
type SeedFile struct {
	Packs map[string]map[string]float64 `toml:"packs"`
}

// LoadSeedFile reads and validates a seed file from path
func LoadSeedFile(path string) (map[string]domain.RateMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drop-rate seed file: %w", err)
	}
	defer file.Close()

	return ParseSeed(file)
}

// ParseSeed decodes a seed document. Every pack must pass ValidateRates;
// the first invalid pack aborts the load.
func ParseSeed(r io.Reader) (map[string]domain.RateMap, error) {
	var seed SeedFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode drop-rate seed: %w", err)
	}

	out := make(map[string]domain.RateMap, len(seed.Packs))
	for name, raw := range seed.Packs {
		pack := NormalizePackType(name)
		if pack == "" {
			return nil, domain.NewValidationError("pack_type", ErrMsgPackTypeEmpty)
		}

		rates := make(domain.RateMap, len(raw))
		for tier, rate := range raw {
			rates[domain.Tier(NormalizePackType(tier))] = rate
		}
		if err := ValidateRates(rates); err != nil {
			return nil, fmt.Errorf("pack %s: %w", pack, err)
		}
		out[pack] = rates
	}
	return out, nil
}

// Seed writes every pack that the repository does not already know about.
// Existing tables are left untouched so admin edits survive restarts.
func Seed(ctx context.Context, repo repository.DropRate, tables map[string]domain.RateMap, now func() time.Time) error {
	log := logger.FromContext(ctx)

	packs := make([]string, 0, len(tables))
	for pack := range tables {
		packs = append(packs, pack)
	}
	sort.Strings(packs)

	for _, pack := range packs {
		existing, err := repo.GetRates(ctx, pack)
		if err != nil {
			return fmt.Errorf("failed to read drop rates for %s: %w", pack, err)
		}
		if existing != nil {
			log.Debug(LogMsgSeedSkipped, "pack_type", pack)
			continue
		}

		table := domain.DropRateTable{
			PackType:  pack,
			Rates:     tables[pack].Clone(),
			UpdatedAt: now(),
		}
		if err := repo.SaveRates(ctx, table); err != nil {
			return fmt.Errorf("failed to seed drop rates for %s: %w", pack, err)
		}
		log.Info(LogMsgSeedApplied, "pack_type", pack)
	}
	return nil
}
