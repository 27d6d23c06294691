package execution

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestFilterKeepsOnlyMatchingRows(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
		{types.NewIntField(2), types.NewStringField("bob")},
		{types.NewIntField(3), types.NewStringField("carol")},
	})

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	filter := NewFilter(Predicate{FieldIndex: 0, Op: types.GreaterThan, Const: types.NewIntField(1)}, scan)

	rows := drain(t, filter)
	require.Len(t, rows, 2)
	for _, row := range rows {
		id, _ := row.Field(0)
		require.Greater(t, id.(types.IntField).Value, int32(1))
	}
}

func TestFilterOnEmptyInputYieldsNothing(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	filter := NewFilter(Predicate{FieldIndex: 0, Op: types.Equals, Const: types.NewIntField(1)}, scan)

	rows := drain(t, filter)
	require.Empty(t, rows)
}

func TestFilterHasNextIsIdempotentBetweenNextCalls(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(5), types.NewStringField("dave")},
	})
	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	filter := NewFilter(Predicate{FieldIndex: 0, Op: types.Equals, Const: types.NewIntField(5)}, scan)

	require.NoError(t, filter.Open())
	defer filter.Close()

	ok1, err := filter.HasNext()
	require.NoError(t, err)
	ok2, err := filter.HasNext()
	require.NoError(t, err)
	require.Equal(t, ok1, ok2)
	require.True(t, ok1)

	_, err = filter.Next()
	require.NoError(t, err)

	ok3, err := filter.HasNext()
	require.NoError(t, err)
	require.False(t, ok3)
}
