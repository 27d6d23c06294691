package execution

import (
	"testing"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func enrollmentDesc() *storage.TupleDesc {
	return storage.NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"student_id", "course"})
}

func TestJoinMatchesOnEquality(t *testing.T) {
	db := newTestDB(t)
	peopleID := db.addTable(t, "people", peopleDesc())
	enrollID := db.addTable(t, "enrollments", enrollmentDesc())

	db.insertRows(t, peopleID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("alice")},
		{types.NewIntField(2), types.NewStringField("bob")},
	})
	db.insertRows(t, enrollID, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("cs101")},
		{types.NewIntField(1), types.NewStringField("cs102")},
		{types.NewIntField(3), types.NewStringField("cs103")},
	})

	left, err := NewSeqScan(types.NewTxID(), peopleID, "p", db.pool, db.cat)
	require.NoError(t, err)
	right, err := NewSeqScan(types.NewTxID(), enrollID, "e", db.pool, db.cat)
	require.NoError(t, err)

	join := NewJoin(JoinPredicate{LeftField: 0, Op: types.Equals, RightField: 0}, left, right)
	rows := drain(t, join)
	require.Len(t, rows, 2)
	for _, row := range rows {
		name, _ := row.Field(1)
		require.Equal(t, "alice", name.(types.StringField).Value)
	}
}

func TestJoinOutputSchemaIsConcatenated(t *testing.T) {
	db := newTestDB(t)
	peopleID := db.addTable(t, "people", peopleDesc())
	enrollID := db.addTable(t, "enrollments", enrollmentDesc())

	left, err := NewSeqScan(types.NewTxID(), peopleID, "", db.pool, db.cat)
	require.NoError(t, err)
	right, err := NewSeqScan(types.NewTxID(), enrollID, "", db.pool, db.cat)
	require.NoError(t, err)

	join := NewJoin(JoinPredicate{LeftField: 0, Op: types.Equals, RightField: 0}, left, right)
	require.Equal(t, 4, join.GetTupleDesc().NumFields())
}
