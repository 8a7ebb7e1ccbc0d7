package droprate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// countingStore wraps a MemoryRepository and counts store reads.
// gate, when set, blocks reads until closed.
type countingStore struct {
	*MemoryRepository
	reads atomic.Int64
	gate  chan struct{}
	err   error
}

func (s *countingStore) GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error) {
	s.reads.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.MemoryRepository.GetRates(ctx, packType)
}

func TestCachedRepository_HitsCacheAfterFirstRead(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository()}
	require.NoError(t, store.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: domain.DefaultRates()}))

	cached := NewCachedRepository(store, 0, time.Minute)

	for i := 0; i < 5; i++ {
		table, err := cached.GetRates(ctx, "STANDARD")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRates(), table.Rates)
	}
	assert.Equal(t, int64(1), store.reads.Load())
}

func TestCachedRepository_CachesMisses(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository()}
	cached := NewCachedRepository(store, 0, time.Minute)

	for i := 0; i < 3; i++ {
		table, err := cached.GetRates(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, table)
	}
	assert.Equal(t, int64(1), store.reads.Load())
}

func TestCachedRepository_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository()}
	cached := NewCachedRepository(store, 0, time.Minute)

	table, err := cached.GetRates(ctx, "STANDARD")
	require.NoError(t, err)
	assert.Nil(t, table)

	updated := domain.RateMap{"COMMON": 40, "RARE": 30, "SR": 20, "SSR": 8, "UR": 2}
	require.NoError(t, cached.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: updated}))

	table, err = cached.GetRates(ctx, "STANDARD")
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, updated, table.Rates)
	assert.Equal(t, int64(2), store.reads.Load())
}

func TestCachedRepository_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository()}
	cached := NewCachedRepository(store, 0, 20*time.Millisecond)

	_, err := cached.GetRates(ctx, "STANDARD")
	require.NoError(t, err)

	// Another instance writes straight to the shared store
	require.NoError(t, store.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: domain.DefaultRates()}))

	assert.Eventually(t, func() bool {
		table, err := cached.GetRates(ctx, "STANDARD")
		return err == nil && table != nil
	}, time.Second, 10*time.Millisecond)
}

func TestCachedRepository_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository(), gate: make(chan struct{})}
	require.NoError(t, store.MemoryRepository.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: domain.DefaultRates()}))

	cached := NewCachedRepository(store, 0, time.Minute)

	var started sync.WaitGroup
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		started.Add(1)
		g.Go(func() error {
			started.Done()
			table, err := cached.GetRates(ctx, "STANDARD")
			if err != nil {
				return err
			}
			if table == nil {
				return errors.New("expected a table")
			}
			return nil
		})
	}

	started.Wait()
	// Give the goroutines time to pile up on the in-flight read
	time.Sleep(20 * time.Millisecond)
	close(store.gate)

	require.NoError(t, g.Wait())
	assert.LessOrEqual(t, store.reads.Load(), int64(2))
}

func TestCachedRepository_StoreErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepository: NewMemoryRepository(), err: domain.ErrDatabaseError}
	cached := NewCachedRepository(store, 0, time.Minute)

	_, err := cached.GetRates(ctx, "STANDARD")
	assert.ErrorIs(t, err, domain.ErrDatabaseError)

	store.err = nil
	_, err = cached.GetRates(ctx, "STANDARD")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), store.reads.Load())
}

// snapshotStore reads the table first and then holds it until gate closes,
// modelling a slow read that started before a write landed
type snapshotStore struct {
	*MemoryRepository
	read chan struct{}
	gate chan struct{}
	held atomic.Bool
}

func (s *snapshotStore) GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error) {
	table, err := s.MemoryRepository.GetRates(ctx, packType)
	if s.held.CompareAndSwap(false, true) {
		close(s.read)
		<-s.gate
	}
	return table, err
}

func TestCachedRepository_InFlightReadDoesNotRecacheAfterSave(t *testing.T) {
	ctx := context.Background()
	store := &snapshotStore{
		MemoryRepository: NewMemoryRepository(),
		read:             make(chan struct{}),
		gate:             make(chan struct{}),
	}
	require.NoError(t, store.MemoryRepository.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: domain.DefaultRates()}))
	cached := NewCachedRepository(store, 0, time.Minute)

	stale := make(chan *domain.DropRateTable, 1)
	go func() {
		table, _ := cached.GetRates(ctx, "STANDARD")
		stale <- table
	}()
	<-store.read

	updated := domain.RateMap{"COMMON": 50, "RARE": 30, "SR": 10, "SSR": 5, "UR": 5}
	require.NoError(t, cached.SaveRates(ctx, domain.DropRateTable{PackType: "STANDARD", Rates: updated}))

	close(store.gate)
	assert.Equal(t, domain.DefaultRates(), (<-stale).Rates)

	_, ok := cached.lru.Get("STANDARD")
	assert.False(t, ok, "pre-write table must not be cached")

	table, err := cached.GetRates(ctx, "STANDARD")
	require.NoError(t, err)
	assert.Equal(t, updated, table.Rates)

	entry, ok := cached.lru.Get("STANDARD")
	require.True(t, ok)
	assert.Equal(t, updated, entry.Table.Rates)
}
