package txn

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestSharedLocksCoexist(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Shared))
	require.True(t, lm.Acquire(2, pid, Shared))
}

func TestExclusiveBlocksOtherHolders(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Shared))
	require.False(t, lm.Acquire(2, pid, Exclusive))
}

func TestUpgradeOnlyWhenSoleHolder(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Shared))
	require.True(t, lm.Acquire(1, pid, Exclusive))

	lm2 := NewLockManager()
	require.True(t, lm2.Acquire(1, pid, Shared))
	require.True(t, lm2.Acquire(2, pid, Shared))
	require.False(t, lm2.Acquire(1, pid, Exclusive))
}

func TestDowngradeAlwaysSucceeds(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Exclusive))
	require.True(t, lm.Acquire(1, pid, Shared))
}

func TestAcquireIsIdempotent(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Shared))
	require.True(t, lm.Acquire(1, pid, Shared))
}

func TestReleaseFreesLockForOtherWriters(t *testing.T) {
	lm := NewLockManager()
	pid := types.PageID{TableID: 1, PageNo: 0}
	require.True(t, lm.Acquire(1, pid, Exclusive))
	require.False(t, lm.Acquire(2, pid, Exclusive))

	lm.Release(1, pid)
	require.True(t, lm.Acquire(2, pid, Exclusive))
}

func TestReleaseAllDropsEveryPage(t *testing.T) {
	lm := NewLockManager()
	p1 := types.PageID{TableID: 1, PageNo: 0}
	p2 := types.PageID{TableID: 1, PageNo: 1}
	require.True(t, lm.Acquire(1, p1, Shared))
	require.True(t, lm.Acquire(1, p2, Exclusive))

	lm.ReleaseAll(1)
	require.False(t, lm.HoldsLock(1, p1))
	require.False(t, lm.HoldsLock(1, p2))
	require.True(t, lm.Acquire(2, p2, Exclusive))
}
