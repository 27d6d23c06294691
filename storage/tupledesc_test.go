package storage

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func intStringDesc() *TupleDesc {
	return NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
}

func TestTupleDescFieldLookup(t *testing.T) {
	td := intStringDesc()
	require.Equal(t, 2, td.NumFields())

	ft, err := td.FieldType(1)
	require.NoError(t, err)
	require.Equal(t, types.StringType, ft)

	idx, err := td.FieldIndex("name")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_, err = td.FieldIndex("missing")
	require.Error(t, err)
}

func TestTupleDescAliasedLookup(t *testing.T) {
	td := intStringDesc().WithAlias("s")
	idx, err := td.FieldIndex("s.name")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = td.FieldIndex("name")
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

func TestTupleDescEqualsIgnoresNames(t *testing.T) {
	a := NewTupleDesc([]types.Type{types.IntType}, []string{"a"})
	b := NewTupleDesc([]types.Type{types.IntType}, []string{"b"})
	require.True(t, a.Equals(b))

	c := NewTupleDesc([]types.Type{types.StringType}, []string{"a"})
	require.False(t, a.Equals(c))
}

func TestTupleDescMerge(t *testing.T) {
	left := NewTupleDesc([]types.Type{types.IntType}, []string{"id"})
	right := NewTupleDesc([]types.Type{types.StringType}, []string{"name"})
	merged := Merge(left, right)
	require.Equal(t, 2, merged.NumFields())
	name, err := merged.FieldName(1)
	require.NoError(t, err)
	require.Equal(t, "name", name)
}

func TestTupleDescSize(t *testing.T) {
	td := intStringDesc()
	require.Equal(t, types.IntLen+4+types.StringLength, td.Size())
}

func TestNewTupleDescPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		NewTupleDesc(nil, nil)
	})
}
