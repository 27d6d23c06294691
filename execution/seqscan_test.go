package execution

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestSeqScanYieldsEveryRow(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
		{types.NewIntField(2), types.NewStringField("bob")},
	})

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	rows := drain(t, scan)
	require.Len(t, rows, 2)
}

func TestSeqScanAliasQualifiesFieldNames(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())

	scan, err := NewSeqScan(types.NewTxID(), tableID, "p", db.pool, db.cat)
	require.NoError(t, err)
	idx, err := scan.GetTupleDesc().FieldIndex("p.name")
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

func TestSeqScanRewindReplaysFromStart(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
	})

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	require.NoError(t, scan.Open())
	defer scan.Close()

	first := drainOpened(t, scan)
	require.NoError(t, scan.Rewind())
	second := drainOpened(t, scan)
	require.Equal(t, first, second)
}

func drainOpened(t *testing.T, op Operator) int {
	t.Helper()
	n := 0
	for {
		ok, err := op.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		_, err = op.Next()
		require.NoError(t, err)
		n++
	}
	return n
}
