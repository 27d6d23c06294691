package storage

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestTupleFieldRoundTrip(t *testing.T) {
	td := intStringDesc()
	tup := NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewIntField(7)))
	require.NoError(t, tup.SetField(1, types.NewStringField("carol")))

	f, err := tup.Field(0)
	require.NoError(t, err)
	require.Equal(t, types.NewIntField(7), f)
}

func TestTupleCloneIsIndependent(t *testing.T) {
	td := NewTupleDesc([]types.Type{types.IntType}, []string{"id"})
	tup := NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewIntField(1)))
	tup.SetRecordID(types.RecordID{PID: types.PageID{TableID: 1, PageNo: 0}, SlotNo: 0})

	clone := tup.Clone()
	require.NoError(t, clone.SetField(0, types.NewIntField(99)))
	clone.SetRecordID(types.RecordID{PID: types.PageID{TableID: 1, PageNo: 0}, SlotNo: 1})

	original, _ := tup.Field(0)
	require.Equal(t, types.NewIntField(1), original)
	require.Equal(t, 0, tup.RecordID().SlotNo)
	require.Equal(t, 1, clone.RecordID().SlotNo)
}

func TestTupleFieldOutOfRange(t *testing.T) {
	td := NewTupleDesc([]types.Type{types.IntType}, []string{"id"})
	tup := NewTuple(td)
	_, err := tup.Field(5)
	require.Error(t, err)
}
