// Package store provides in-run query deduplication and the persistent
// download history.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"tunegrab/pkg/fuzzy"
)

// QueryDedup tracks every query already handled in the current run so a
// playlist with repeated entries fetches each track once. Keys are
// normalized before storage; a Bloom filter front-ends the exact map.
type QueryDedup struct {
	queries    map[string]struct{}
	bloom      *bloom.BloomFilter
	lru        *lru.Cache[string, struct{}]
	normalizer *fuzzy.Normalizer
	mutex      sync.RWMutex
	maxQueries int
}

// NewQueryDedup creates a dedup store bounded to maxQueries entries with
// the given Bloom false positive rate.
func NewQueryDedup(maxQueries int, falsePositiveRate float64) *QueryDedup {
	lruCache, _ := lru.New[string, struct{}](maxQueries)

	if maxQueries < 0 {
		panic("maxQueries must be non-negative")
	}

	return &QueryDedup{
		queries:    make(map[string]struct{}),
		bloom:      bloom.NewWithEstimates(uint(maxQueries), falsePositiveRate),
		lru:        lruCache,
		normalizer: fuzzy.NewNormalizer(),
		maxQueries: maxQueries,
	}
}

// Has checks whether an equivalent query was already seen.
func (d *QueryDedup) Has(query string) bool {
	key := d.normalizer.NormalizeQuery(query)

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if !d.bloom.TestString(key) {
		return false
	}

	_, exists := d.queries[key]
	return exists
}

// Add records a query.
func (d *QueryDedup) Add(query string) {
	key := d.normalizer.NormalizeQuery(query)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, exists := d.queries[key]; exists {
		return
	}

	d.queries[key] = struct{}{}
	d.bloom.AddString(key)
	d.lru.Add(key, struct{}{})

	if len(d.queries) > d.maxQueries {
		d.evictOldest()
	}
}

// Size returns the number of distinct queries seen.
func (d *QueryDedup) Size() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.queries)
}

func (d *QueryDedup) evictOldest() {
	oldestKey, _, ok := d.lru.GetOldest()
	if !ok {
		return
	}

	delete(d.queries, oldestKey)
	d.lru.Remove(oldestKey)
	// The Bloom filter cannot forget; a stale positive still falls
	// through to the exact map.
}
