package droprate

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/yamiko-app/yamiko/internal/domain"
)

// snapshot is an immutable view of every configured pack. It is never
// mutated after being published; writers build a new one.
type snapshot map[string]domain.DropRateTable

// MemoryRepository keeps drop-rate tables in process memory for
// single-instance deployments. Reads are lock-free; a write copies the
// current snapshot, replaces one pack and swaps the pointer.
type MemoryRepository struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{}
	empty := snapshot{}
	r.current.Store(&empty)
	return r
}

// GetRates returns (nil, nil) for a pack that was never configured
func (r *MemoryRepository) GetRates(_ context.Context, packType string) (*domain.DropRateTable, error) {
	snap := *r.current.Load()
	table, ok := snap[packType]
	if !ok {
		return nil, nil
	}
	table.Rates = table.Rates.Clone()
	return &table, nil
}

// SaveRates replaces the whole table for one pack
func (r *MemoryRepository) SaveRates(_ context.Context, table domain.DropRateTable) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	old := *r.current.Load()
	next := make(snapshot, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	table.Rates = table.Rates.Clone()
	next[table.PackType] = table

	r.current.Store(&next)
	return nil
}

// ListPackTypes returns configured packs in lexical order
func (r *MemoryRepository) ListPackTypes(_ context.Context) ([]string, error) {
	snap := *r.current.Load()
	packs := make([]string, 0, len(snap))
	for k := range snap {
		packs = append(packs, k)
	}
	sort.Strings(packs)
	return packs, nil
}
