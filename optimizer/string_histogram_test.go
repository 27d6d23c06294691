package optimizer

import (
	"testing"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

func TestStringHistogramEqualsFindsAddedValue(t *testing.T) {
	h := NewStringHistogram(10)
	for _, s := range []string{"alice", "bob", "carol", "dave", "eve"} {
		h.AddValue(s)
	}
	sel := h.EstimateSelectivity(types.Equals, "alice")
	require.Greater(t, sel, 0.0)
}

func TestStringHistogramIsDeterministic(t *testing.T) {
	a := NewStringHistogram(10)
	b := NewStringHistogram(10)
	for _, s := range []string{"apple", "banana", "cherry"} {
		a.AddValue(s)
		b.AddValue(s)
	}
	require.Equal(t, a.EstimateSelectivity(types.Equals, "banana"), b.EstimateSelectivity(types.Equals, "banana"))
}

func TestStringHistogramAvgSelectivityBounded(t *testing.T) {
	h := NewStringHistogram(10)
	for _, s := range []string{"a", "b", "c", "d"} {
		h.AddValue(s)
	}
	avg := h.AvgSelectivity()
	require.Greater(t, avg, 0.0)
	require.LessOrEqual(t, avg, 1.0)
}
