package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTxIDIsUnique(t *testing.T) {
	a := NewTxID()
	b := NewTxID()
	require.NotEqual(t, a, b)
}

func TestTableIDFromPathIsDeterministic(t *testing.T) {
	id1 := TableIDFromPath("/var/db/students.dat")
	id2 := TableIDFromPath("/var/db/students.dat")
	require.Equal(t, id1, id2)

	id3 := TableIDFromPath("/var/db/courses.dat")
	require.NotEqual(t, id1, id3)
}

func TestPageIDHashStableAcrossEqualValues(t *testing.T) {
	a := PageID{TableID: 7, PageNo: 3}
	b := PageID{TableID: 7, PageNo: 3}
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a, b)
}

func TestRecordIDEquals(t *testing.T) {
	pid := PageID{TableID: 1, PageNo: 0}
	a := RecordID{PID: pid, SlotNo: 2}
	b := RecordID{PID: pid, SlotNo: 2}
	c := RecordID{PID: pid, SlotNo: 3}
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}
