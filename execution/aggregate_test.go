package execution

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestAggregateCountWithoutGrouping(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
		{types.NewIntField(2), types.NewStringField("bob")},
		{types.NewIntField(3), types.NewStringField("carol")},
	})

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	agg := NewAggregate(scan, 0, NoGrouping, Count)

	rows := drain(t, agg)
	require.Len(t, rows, 1)
	v, err := rows[0].Field(0)
	require.NoError(t, err)
	require.Equal(t, int32(3), v.(types.IntField).Value)
}

func TestAggregateSumGroupedByField(t *testing.T) {
	db := newTestDB(t)
	td := peopleDesc()
	tableID := db.addTable(t, "scores", td)
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("team-a")},
		{types.NewIntField(2), types.NewStringField("team-a")},
		{types.NewIntField(5), types.NewStringField("team-b")},
	})

	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	agg := NewAggregate(scan, 0, 1, Sum)

	rows := drain(t, agg)
	require.Len(t, rows, 2)

	sums := map[string]int32{}
	for _, row := range rows {
		group, _ := row.Field(0)
		sum, _ := row.Field(1)
		sums[group.(types.StringField).Value] = sum.(types.IntField).Value
	}
	require.Equal(t, int32(3), sums["team-a"])
	require.Equal(t, int32(5), sums["team-b"])
}

func TestAggregateRewindReplaysSameResults(t *testing.T) {
	db := newTestDB(t)
	tableID := db.addTable(t, "people", peopleDesc())
	db.insertRows(t, tableID, [][]types.Field{
		{types.NewIntField(10), types.NewStringField("x")},
	})
	scan, err := NewSeqScan(types.NewTxID(), tableID, "", db.pool, db.cat)
	require.NoError(t, err)
	agg := NewAggregate(scan, 0, NoGrouping, Max)

	require.NoError(t, agg.Open())
	defer agg.Close()
	_, err = agg.Next()
	require.NoError(t, err)

	require.NoError(t, agg.Rewind())
	ok, err := agg.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
}
