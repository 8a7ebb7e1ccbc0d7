package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamiko-app/yamiko/internal/config"
	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/droprate"
	"github.com/yamiko-app/yamiko/internal/event"
)

func TestInitializeStorage_Memory(t *testing.T) {
	storage, err := InitializeStorage(context.Background(), &config.Config{StorageDriver: config.StorageDriverMemory})

	require.NoError(t, err)
	assert.Nil(t, storage.Pool)
	assert.NotNil(t, storage.Progression)
	assert.NotNil(t, storage.DropRates)
	storage.Close()
}

func TestInitializeStorage_UnknownDriver(t *testing.T) {
	_, err := InitializeStorage(context.Background(), &config.Config{StorageDriver: "sqlite"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownStorageDriver)
}

func TestSeedDropRates(t *testing.T) {
	ctx := context.Background()

	t.Run("shipped seed file", func(t *testing.T) {
		repo := droprate.NewMemoryRepository()
		require.NoError(t, SeedDropRates(ctx, repo, filepath.Join("..", "..", config.ConfigPathDropRates)))

		packs, err := repo.ListPackTypes(ctx)
		require.NoError(t, err)
		assert.Contains(t, packs, domain.DefaultPackType)
	})

	t.Run("missing file is tolerated", func(t *testing.T) {
		repo := droprate.NewMemoryRepository()
		require.NoError(t, SeedDropRates(ctx, repo, filepath.Join(t.TempDir(), "absent.toml")))

		packs, err := repo.ListPackTypes(ctx)
		require.NoError(t, err)
		assert.Empty(t, packs)
	})

	t.Run("invalid file fails startup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[packs.STANDARD]\nCOMMON = 90\n"), 0o600))

		err := SeedDropRates(ctx, droprate.NewMemoryRepository(), path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

type failingProvisioner struct{}

func (failingProvisioner) CreateProgression(context.Context, string) (*domain.UserProgression, error) {
	return nil, domain.ErrDatabaseError
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	storage, err := InitializeStorage(ctx, &config.Config{StorageDriver: config.StorageDriverMemory})
	require.NoError(t, err)

	require.NoError(t, SeedUsers(ctx, storage.Progression, []string{"alice", "bob"}))

	p, err := storage.Progression.GetProgression(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)

	err = SeedUsers(ctx, failingProvisioner{}, []string{"carol"})
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
	assert.Contains(t, err.Error(), `"carol"`)
}

func TestInitializeEventSystem_LevelUpSubscriber(t *testing.T) {
	bus, err := InitializeEventSystem()
	require.NoError(t, err)

	assert.NoError(t, bus.Publish(context.Background(), event.NewLevelUpEvent("u1", 1, 2, 50)))
	assert.Error(t, logLevelUp(context.Background(), event.Event{Type: event.ProgressionLevelUp, Payload: make(chan int)}))
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"session_2026-01-01_00-00-00.log",
		"session_2026-01-02_00-00-00.log",
		"session_2026-01-03_00-00-00.log",
		"notes.txt",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	cleanupLogs(dir, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var remaining []string
	for _, e := range entries {
		remaining = append(remaining, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"session_2026-01-02_00-00-00.log",
		"session_2026-01-03_00-00-00.log",
		"notes.txt",
	}, remaining)
}

type stubServer struct{ err error }

func (s stubServer) Stop(context.Context) error { return s.err }

func TestGracefulShutdown_ContinuesPastErrors(t *testing.T) {
	storage, err := InitializeStorage(context.Background(), &config.Config{StorageDriver: config.StorageDriverMemory})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		GracefulShutdown(context.Background(), ShutdownComponents{
			Server:          stubServer{err: errors.New("stuck")},
			DropRateService: droprate.NewService(storage.DropRates, nil),
			Storage:         storage,
		})
	})
}
