package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/yamiko-app/yamiko/internal/config"
	"github.com/yamiko-app/yamiko/internal/database"
	"github.com/yamiko-app/yamiko/internal/database/memory"
	"github.com/yamiko-app/yamiko/internal/database/postgres"
	"github.com/yamiko-app/yamiko/internal/droprate"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// ProgressionStore is a progression repository that can also provision users
type ProgressionStore interface {
	repository.Progression
	repository.ProgressionProvisioner
}

// Storage holds the repository implementations selected by configuration.
// Pool is nil for the in-memory driver.
type Storage struct {
	Progression ProgressionStore
	DropRates   repository.DropRate
	Pool        database.Pool
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// InitializeStorage builds the repositories for cfg.StorageDriver. The
// postgres driver runs pending migrations first unless AutoMigrate is off,
// and fronts the drop-rate table with a TTL cache.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		slog.Info(LogMsgStorageInitialized, "driver", cfg.StorageDriver)
		return &Storage{
			Progression: memory.NewStore(),
			DropRates:   droprate.NewMemoryRepository(),
		}, nil

	case config.StorageDriverPostgres:
		connString := cfg.GetDBConnString()

		if cfg.AutoMigrate {
			if _, err := database.Migrate(ctx, connString); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
			}
		} else {
			slog.Info(LogMsgMigrationsSkipped)
		}

		pool, err := database.NewPool(ctx, connString, database.PoolConfig{
			MaxConns:    cfg.DBMaxConns,
			MaxIdleTime: cfg.DBMaxConnIdleTime,
			MaxLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}

		slog.Info(LogMsgStorageInitialized,
			"driver", cfg.StorageDriver,
			"drop_rate_cache_ttl", cfg.DropRateCacheTTL)
		return &Storage{
			Progression: postgres.NewProgressionRepository(pool),
			DropRates: droprate.NewCachedRepository(
				postgres.NewDropRateRepository(pool),
				cfg.DropRateCacheSize,
				cfg.DropRateCacheTTL,
			),
			Pool: pool,
		}, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorageDriver, cfg.StorageDriver)
	}
}

// SeedDropRates loads the TOML seed file and stores every pack not yet
// configured. A missing file is not an error: the built-in table still serves.
func SeedDropRates(ctx context.Context, repo repository.DropRate, path string) error {
	tables, err := droprate.LoadSeedFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn(LogMsgDropRateSeedMissing, "path", path)
			return nil
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadSeed, err)
	}

	if err := droprate.Seed(ctx, repo, tables, time.Now); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSeedDropRates, err)
	}

	slog.Info(LogMsgDropRatesSeeded, "path", path, "packs", len(tables))
	return nil
}

// SeedUsers provisions a level-1 record for each listed user that lacks one
func SeedUsers(ctx context.Context, provisioner repository.ProgressionProvisioner, userIDs []string) error {
	for _, userID := range userIDs {
		if _, err := provisioner.CreateProgression(ctx, userID); err != nil {
			return fmt.Errorf("%s %q: %w", ErrMsgFailedSeedUser, userID, err)
		}
	}
	if len(userIDs) > 0 {
		slog.Info(LogMsgUsersSeeded, "count", len(userIDs))
	}
	return nil
}
