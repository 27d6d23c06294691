package execution

import (
	"testing"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestInsertThenScanRoundTrip(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())

	rows := []*storage.Tuple{}
	for i := 0; i < 3; i++ {
		tup := storage.NewTuple(peopleDesc())
		require.NoError(t, tup.SetField(0, types.NewIntField(int32(i))))
		require.NoError(t, tup.SetField(1, types.NewStringField("row")))
		rows = append(rows, tup)
	}
	source := NewTupleSource(peopleDesc(), rows)

	tid := types.NewTxID()
	ins := NewInsert(tid, source, tableID, db.pool)
	require.NoError(t, ins.Open())
	result, err := ins.Next()
	require.NoError(t, err)
	n, _ := result.Field(0)
	require.Equal(t, int32(3), n.(types.IntField).Value)
	require.NoError(t, ins.Close())
	require.NoError(t, db.pool.TransactionComplete(tid, true))

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	require.Len(t, drain(t, scan), 3)
}

func TestInsertSecondNextIsExhausted(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	source := NewTupleSource(peopleDesc(), nil)
	tid := types.NewTxID()
	ins := NewInsert(tid, source, tableID, db.pool)
	require.NoError(t, ins.Open())
	_, err := ins.Next()
	require.NoError(t, err)
	_, err = ins.Next()
	require.ErrorIs(t, err, types.ErrNoSuchElement)
}

func TestDeleteThenScanIsEmpty(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
	})

	scanTid := types.NewTxID()
	scan, err := NewSeqScan(scanTid, tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	require.NoError(t, scan.Open())
	ok, err := scan.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	victim, err := scan.Next()
	require.NoError(t, err)
	require.NoError(t, scan.Close())
	require.NoError(t, db.pool.TransactionComplete(scanTid, true))

	deleteTid := types.NewTxID()
	del := NewDelete(deleteTid, NewTupleSource(peopleDesc(), []*storage.Tuple{victim}), db.pool)
	require.NoError(t, del.Open())
	result, err := del.Next()
	require.NoError(t, err)
	n, _ := result.Field(0)
	require.Equal(t, int32(1), n.(types.IntField).Value)
	require.NoError(t, del.Close())
	require.NoError(t, db.pool.TransactionComplete(deleteTid, true))

	verifyScan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	require.Empty(t, drain(t, verifyScan))
}

func TestDeleteTupleNotOnAnyPageIsRejected(t *testing.T) {
	db := newTestDB(t)
	db.addTable(t, "people", peopleDesc())
	stray := storage.NewTuple(peopleDesc())
	require.NoError(t, stray.SetField(0, types.NewIntField(1)))
	require.NoError(t, stray.SetField(1, types.NewStringField("ghost")))

	tid := types.NewTxID()
	del := NewDelete(tid, NewTupleSource(peopleDesc(), []*storage.Tuple{stray}), db.pool)
	require.NoError(t, del.Open())
	_, err := del.Next()
	require.ErrorIs(t, err, types.ErrNotOnPage)
}
