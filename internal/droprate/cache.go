package droprate

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/repository"
)

// cachedTable wraps a table with version metadata. A nil table records that
// the pack is not configured so repeated misses do not reach the store.
type cachedTable struct {
	Version  string
	Table    *domain.DropRateTable
	CachedAt time.Time
}

// CachedRepository fronts a shared store with a short-lived local cache.
// Concurrent misses for one pack collapse into a single store read.
// Writes through this repository invalidate the local entry; other
// instances pick up the change when their entry expires.
//
// Each pack carries a generation bumped by Invalidate. A read only populates
// the cache if the generation it started under is still current, so a read
// racing a local write never re-caches the old table.
type CachedRepository struct {
	store repository.DropRate
	lru   *expirable.LRU[string, *cachedTable]
	group singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCachedRepository wraps store. size and ttl fall back to defaults when not positive.
func NewCachedRepository(store repository.DropRate, size int, ttl time.Duration) *CachedRepository {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{
		store:       store,
		lru:         expirable.NewLRU[string, *cachedTable](size, nil, ttl),
		generations: make(map[string]uint64),
	}
}

func (c *CachedRepository) GetRates(ctx context.Context, packType string) (*domain.DropRateTable, error) {
	if entry, ok := c.lru.Get(packType); ok {
		if entry.Version == CacheSchemaVersion {
			return copyTable(entry.Table), nil
		}
		c.lru.Remove(packType)
	}

	v, err, _ := c.group.Do(packType, func() (interface{}, error) {
		gen := c.generation(packType)
		table, err := c.store.GetRates(ctx, packType)
		if err != nil {
			return nil, err
		}
		c.addIfCurrent(packType, gen, &cachedTable{
			Version:  CacheSchemaVersion,
			Table:    table,
			CachedAt: time.Now(),
		})
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return copyTable(v.(*domain.DropRateTable)), nil
}

func (c *CachedRepository) SaveRates(ctx context.Context, table domain.DropRateTable) error {
	if err := c.store.SaveRates(ctx, table); err != nil {
		return err
	}
	c.Invalidate(ctx, table.PackType)
	return nil
}

func (c *CachedRepository) ListPackTypes(ctx context.Context) ([]string, error) {
	return c.store.ListPackTypes(ctx)
}

// Invalidate drops the cached entry for one pack
func (c *CachedRepository) Invalidate(ctx context.Context, packType string) {
	c.mu.Lock()
	c.generations[packType]++
	c.group.Forget(packType)
	c.lru.Remove(packType)
	c.mu.Unlock()
	logger.FromContext(ctx).Debug(LogMsgCacheInvalidation, "pack_type", packType)
}

// Purge drops every cached entry
func (c *CachedRepository) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pack := range c.lru.Keys() {
		c.generations[pack]++
	}
	c.lru.Purge()
}

func (c *CachedRepository) generation(packType string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[packType]
}

// addIfCurrent caches entry unless packType was invalidated after gen was read
func (c *CachedRepository) addIfCurrent(packType string, gen uint64, entry *cachedTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[packType] != gen {
		return
	}
	c.lru.Add(packType, entry)
}

func copyTable(t *domain.DropRateTable) *domain.DropRateTable {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Rates = t.Rates.Clone()
	return &cp
}
