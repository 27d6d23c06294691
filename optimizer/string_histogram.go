package optimizer

import (
	"math"

	"github.com/shubhamnegi/simpledb/types"
)

// stringCodeMin and stringCodeMax bound the int32 space stringCode maps
// into: the non-negative half of int32.
const (
	stringCodeMin int32 = 0
	stringCodeMax int32 = math.MaxInt32
)

// stringCode maps a string to a deterministic int32 by packing its
// first four bytes (zero-padded if shorter) into 8-bit slots, most
// significant byte first; a code that comes out negative is negated so
// it falls in [stringCodeMin, stringCodeMax].
func stringCode(s string) int32 {
	var buf [4]byte
	for i := 0; i < 4; i++ {
		if i < len(s) {
			buf[i] = s[i]
		}
	}
	code := int32(buf[0])<<24 | int32(buf[1])<<16 | int32(buf[2])<<8 | int32(buf[3])
	if code < 0 {
		code = -code
	}
	return code
}

// StringHistogram buckets strings by delegating to an IntHistogram over
// their 4-character codes: the same equi-width bucket math, selectivity
// formulas, and average-selectivity estimate apply unchanged.
type StringHistogram struct {
	inner *IntHistogram
}

func NewStringHistogram(numBuckets int) *StringHistogram {
	return &StringHistogram{inner: NewIntHistogram(numBuckets, stringCodeMin, stringCodeMax)}
}

func (h *StringHistogram) AddValue(s string) {
	h.inner.AddValue(stringCode(s))
}

func (h *StringHistogram) EstimateSelectivity(op types.Op, s string) float64 {
	return h.inner.EstimateSelectivity(op, stringCode(s))
}

func (h *StringHistogram) AvgSelectivity() float64 {
	return h.inner.AvgSelectivity()
}
