package optimizer

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/shubhamnegi/simpledb/storage"
)

// StatsCache memoizes TableStats per table so repeated query planning
// doesn't re-scan a table that hasn't changed. It is not invalidated on
// writes — callers that need fresh stats after a bulk load should
// Invalidate the affected table explicitly.
type StatsCache struct {
	cache         *ristretto.Cache[uint64, *TableStats]
	ioCostPerPage int
}

// NewStatsCache builds a cache sized for a modest number of tables;
// TableStats objects are small (a handful of histograms), so cost is
// tracked as a flat 1 per entry rather than by estimated memory size.
func NewStatsCache(ioCostPerPage int) (*StatsCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, *TableStats]{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &StatsCache{cache: c, ioCostPerPage: ioCostPerPage}, nil
}

// Get returns the cached TableStats for tableID, computing and caching
// it via a fresh full-table scan on a miss.
func (sc *StatsCache) Get(tableID uint64, resolver storage.FileResolver, pool *storage.BufferPool) (*TableStats, error) {
	if ts, ok := sc.cache.Get(tableID); ok {
		return ts, nil
	}
	ts, err := NewTableStats(tableID, sc.ioCostPerPage, resolver, pool)
	if err != nil {
		return nil, err
	}
	sc.cache.Set(tableID, ts, 1)
	sc.cache.Wait()
	return ts, nil
}

// Invalidate drops tableID's cached statistics, forcing the next Get to
// rescan.
func (sc *StatsCache) Invalidate(tableID uint64) {
	sc.cache.Del(tableID)
}

func (sc *StatsCache) Close() {
	sc.cache.Close()
}
