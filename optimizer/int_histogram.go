// Package optimizer estimates scan costs and predicate selectivities
// from per-column histograms.
package optimizer

import (
	"fmt"
	"math"

	"github.com/shubhamnegi/simpledb/types"
)

// IntHistogram is a fixed-bucket equi-width histogram over int32 values
// in [min, max]. Buckets are only as accurate as their width allows;
// EstimateSelectivity linearly interpolates within the bucket a query
// constant falls into.
type IntHistogram struct {
	buckets []int32
	min     int32
	max     int32
	width   float64
	ntups   int32
}

// NewIntHistogram builds an empty histogram with the given bucket count
// spanning [min, max] inclusive.
func NewIntHistogram(numBuckets int, min, max int32) *IntHistogram {
	width := math.Max(1.0, (float64(max-min)+1.0)/float64(numBuckets))
	return &IntHistogram{
		buckets: make([]int32, numBuckets),
		min:     min,
		max:     max,
		width:   width,
	}
}

func (h *IntHistogram) getIndex(v int32) int {
	idx := int(float64(v-h.min) / h.width)
	if idx >= len(h.buckets) {
		idx = len(h.buckets) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// AddValue records one occurrence of v. Values outside [min, max] are
// ignored; construction from a pre-scanned min/max range should never
// pass one.
func (h *IntHistogram) AddValue(v int32) {
	if v < h.min || v > h.max {
		return
	}
	h.buckets[h.getIndex(v)]++
	h.ntups++
}

// bucketRightEdge returns the exclusive upper bound of bucket idx.
func (h *IntHistogram) bucketRightEdge(idx int) float64 {
	return float64(h.min) + float64(idx+1)*h.width
}

// EstimateSelectivity returns the estimated fraction of tuples
// satisfying `field op v`, per the bucket arithmetic in the original
// IntHistogram: equality and inequality read off one bucket's density,
// the ordered comparisons compose EQUALS/GREATER_THAN recursively.
func (h *IntHistogram) EstimateSelectivity(op types.Op, v int32) float64 {
	if h.ntups == 0 {
		return 0
	}
	switch op {
	case types.Equals:
		if v < h.min || v > h.max {
			return 0
		}
		idx := h.getIndex(v)
		height := float64(h.buckets[idx])
		return (height / h.width) / float64(h.ntups)
	case types.NotEquals:
		return 1.0 - h.EstimateSelectivity(types.Equals, v)
	case types.GreaterThan:
		if v < h.min {
			return 1.0
		}
		if v >= h.max {
			return 0.0
		}
		idx := h.getIndex(v)
		var sel float64
		bRight := h.bucketRightEdge(idx)
		bFrac := (bRight - float64(v) - 1) / h.width
		sel += bFrac * (float64(h.buckets[idx]) / float64(h.ntups))
		for i := idx + 1; i < len(h.buckets); i++ {
			sel += float64(h.buckets[i]) / float64(h.ntups)
		}
		return sel
	case types.GreaterThanOrEq:
		return h.EstimateSelectivity(types.Equals, v) + h.EstimateSelectivity(types.GreaterThan, v)
	case types.LessThan:
		return 1.0 - h.EstimateSelectivity(types.GreaterThanOrEq, v)
	case types.LessThanOrEq:
		return 1.0 - h.EstimateSelectivity(types.GreaterThan, v)
	default:
		return -1.0
	}
}

// AvgSelectivity is the mean per-bucket fraction of tuples, used as the
// selectivity of a predicate whose constant can't be statically known at
// plan time. It takes no operator: the same value serves every op.
func (h *IntHistogram) AvgSelectivity() float64 {
	if h.ntups == 0 {
		return 0
	}
	var sum float64
	for _, c := range h.buckets {
		sum += float64(c) / float64(h.ntups)
	}
	return sum / float64(len(h.buckets))
}

func (h *IntHistogram) String() string {
	return fmt.Sprintf("IntHistogram(buckets=%d, min=%d, max=%d, ntups=%d)", len(h.buckets), h.min, h.max, h.ntups)
}
