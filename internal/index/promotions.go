package index

import (
	"sync"
	"time"

	"github.com/vdsearch/vdsearch/internal/domain"
)

// PromotionIndex is the process-wide promotion cache: the last fetched
// snapshot plus a derived lookup table from normalized trigger query to
// promotion. It is rebuilt wholesale and never partially mutated; readers
// see either the previous state or the new one.
type PromotionIndex struct {
	mu          sync.RWMutex
	snapshot    []*domain.Promotion
	byQuery     map[string]*domain.Promotion
	ready       bool
	lastRebuild time.Time
}

// NewPromotionIndex creates an empty, unpopulated index.
func NewPromotionIndex() *PromotionIndex {
	return &PromotionIndex{}
}

// Rebuild replaces the snapshot and derives the query table. For each
// promotion, each trigger query is normalized and mapped to the promotion;
// later promotions in iteration order overwrite earlier ones on collision.
// The store returns promotions ordered by creation time descending, so on a
// duplicate trigger the oldest-created promotion wins.
func (idx *PromotionIndex) Rebuild(promotions []*domain.Promotion) {
	snapshot := domain.ClonePromotions(promotions)
	byQuery := make(map[string]*domain.Promotion)
	for _, promo := range snapshot {
		for _, q := range promo.Queries {
			normalized := domain.NormalizeQuery(q)
			if normalized == "" {
				continue
			}
			byQuery[normalized] = promo
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snapshot = snapshot
	idx.byQuery = byQuery
	idx.ready = true
	idx.lastRebuild = time.Now()
}

// Lookup returns the promotion whose trigger queries contain the normalized
// input, or nil. Empty and whitespace-only input never matches.
func (idx *PromotionIndex) Lookup(query string) *domain.Promotion {
	normalized := domain.NormalizeQuery(query)
	if normalized == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.byQuery[normalized]
}

// Snapshot returns a deep copy of the last fetched promotion set. It is the
// baseline the diff engine compares an edited working set against.
func (idx *PromotionIndex) Snapshot() []*domain.Promotion {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return domain.ClonePromotions(idx.snapshot)
}

// Invalidate tears the cache down. The next read must refetch from the store.
func (idx *PromotionIndex) Invalidate() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snapshot = nil
	idx.byQuery = nil
	idx.ready = false
}

// Ready reports whether the index holds a usable snapshot.
func (idx *PromotionIndex) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.ready
}

// Count returns the number of promotions in the snapshot.
func (idx *PromotionIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.snapshot)
}

// LastRebuild returns the timestamp of the last successful rebuild.
func (idx *PromotionIndex) LastRebuild() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastRebuild
}
