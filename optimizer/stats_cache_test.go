package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsCacheGetCachesResult(t *testing.T) {
	cat, pool, tableID := newStatsTestTable(t)
	sc, err := NewStatsCache(1000)
	require.NoError(t, err)
	defer sc.Close()

	first, err := sc.Get(tableID, cat, pool)
	require.NoError(t, err)
	second, err := sc.Get(tableID, cat, pool)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestStatsCacheInvalidateForcesRescan(t *testing.T) {
	cat, pool, tableID := newStatsTestTable(t)
	sc, err := NewStatsCache(1000)
	require.NoError(t, err)
	defer sc.Close()

	first, err := sc.Get(tableID, cat, pool)
	require.NoError(t, err)
	sc.Invalidate(tableID)
	second, err := sc.Get(tableID, cat, pool)
	require.NoError(t, err)
	require.NotSame(t, first, second)
}
