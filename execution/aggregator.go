package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// AggOp is the closed set of aggregation operators. SCAvg and SumCount
// are reserved (never produced by a parsed query in this engine) and
// exist only so MergeTupleIntoGroup can reject them with INVALID_AGG
// instead of a generic panic.
type AggOp int

const (
	Min AggOp = iota
	Max
	Sum
	Avg
	Count
	SCAvg
	SumCount
)

func (op AggOp) String() string {
	switch op {
	case Min:
		return "min"
	case Max:
		return "max"
	case Sum:
		return "sum"
	case Avg:
		return "avg"
	case Count:
		return "count"
	case SCAvg:
		return "sc_avg"
	case SumCount:
		return "sum_count"
	default:
		return fmt.Sprintf("AggOp(%d)", int(op))
	}
}

// NoGrouping marks an Aggregate with no group-by field.
const NoGrouping = -1

// noGroupKey is the single group key used when an aggregator has no
// group-by field.
var noGroupKey = types.NewIntField(0)

func groupKey(t *storage.Tuple, gbField int) (types.Field, error) {
	if gbField == NoGrouping {
		return noGroupKey, nil
	}
	return t.Field(gbField)
}

// aggDescFor builds the output schema for an aggregator: (groupVal,
// aggVal) when grouping, (aggVal) otherwise.
func aggDescFor(gbField int, gbFieldType types.Type) *storage.TupleDesc {
	if gbField == NoGrouping {
		return storage.NewTupleDesc([]types.Type{types.IntType}, []string{"aggVal"})
	}
	return storage.NewTupleDesc([]types.Type{gbFieldType, types.IntType}, []string{"groupVal", "aggVal"})
}

type intGroupState struct {
	total int32
	count int32
}

func newIntGroupState(v int32) *intGroupState { return &intGroupState{total: v, count: 1} }

func (st *intGroupState) update(op AggOp, v int32) error {
	switch op {
	case Avg:
		st.total += v
		st.count++
	case Count:
		st.count++
	case Max:
		if v > st.total {
			st.total = v
		}
		st.count++
	case Min:
		if v < st.total {
			st.total = v
		}
		st.count++
	case Sum:
		st.total += v
		st.count++
	default:
		return fmt.Errorf("%w: unsupported int aggregate op %v", types.ErrInvalidAgg, op)
	}
	return nil
}

func (st *intGroupState) result(op AggOp) (int32, error) {
	switch op {
	case Avg:
		return st.total / st.count, nil
	case Count:
		return st.count, nil
	case Max, Sum, Min:
		return st.total, nil
	default:
		return 0, fmt.Errorf("%w: unsupported int aggregate op %v", types.ErrInvalidAgg, op)
	}
}

// IntAggregator computes MIN/MAX/SUM/AVG/COUNT over an INT aggregate
// field, grouped by gbField (or ungrouped if gbField == NoGrouping).
type IntAggregator struct {
	gbField     int
	gbFieldType types.Type
	aField      int
	op          AggOp

	groups map[types.Field]*intGroupState
	order  []types.Field
}

func NewIntAggregator(gbField int, gbFieldType types.Type, aField int, op AggOp) *IntAggregator {
	return &IntAggregator{
		gbField:     gbField,
		gbFieldType: gbFieldType,
		aField:      aField,
		op:          op,
		groups:      make(map[types.Field]*intGroupState),
	}
}

func (a *IntAggregator) MergeTupleIntoGroup(t *storage.Tuple) error {
	af, err := t.Field(a.aField)
	if err != nil {
		return err
	}
	intField, ok := af.(types.IntField)
	if !ok {
		return fmt.Errorf("%w: aggregate field is not INT", types.ErrInvalidAgg)
	}
	key, err := groupKey(t, a.gbField)
	if err != nil {
		return err
	}
	if st, ok := a.groups[key]; ok {
		return st.update(a.op, intField.Value)
	}
	if a.op == SCAvg || a.op == SumCount {
		return fmt.Errorf("%w: unsupported int aggregate op %v", types.ErrInvalidAgg, a.op)
	}
	a.groups[key] = newIntGroupState(intField.Value)
	a.order = append(a.order, key)
	return nil
}

// Results materializes one output tuple per group, in first-seen order.
func (a *IntAggregator) Results() ([]*storage.Tuple, error) {
	td := aggDescFor(a.gbField, a.gbFieldType)
	out := make([]*storage.Tuple, 0, len(a.order))
	for _, key := range a.order {
		res, err := a.groups[key].result(a.op)
		if err != nil {
			return nil, err
		}
		t := storage.NewTuple(td)
		if a.gbField == NoGrouping {
			_ = t.SetField(0, types.NewIntField(res))
		} else {
			_ = t.SetField(0, key)
			_ = t.SetField(1, types.NewIntField(res))
		}
		out = append(out, t)
	}
	return out, nil
}

// StringAggregator supports only COUNT, per spec §4.I — any other op
// raises INVALID_AGG at construction.
type StringAggregator struct {
	gbField     int
	gbFieldType types.Type
	aField      int

	counts map[types.Field]int32
	order  []types.Field
}

func NewStringAggregator(gbField int, gbFieldType types.Type, aField int, op AggOp) (*StringAggregator, error) {
	if op != Count {
		return nil, fmt.Errorf("%w: string aggregator only supports COUNT, got %v", types.ErrInvalidAgg, op)
	}
	return &StringAggregator{
		gbField:     gbField,
		gbFieldType: gbFieldType,
		aField:      aField,
		counts:      make(map[types.Field]int32),
	}, nil
}

func (a *StringAggregator) MergeTupleIntoGroup(t *storage.Tuple) error {
	if _, err := t.Field(a.aField); err != nil {
		return err
	}
	key, err := groupKey(t, a.gbField)
	if err != nil {
		return err
	}
	if _, ok := a.counts[key]; !ok {
		a.order = append(a.order, key)
	}
	a.counts[key]++
	return nil
}

func (a *StringAggregator) Results() ([]*storage.Tuple, error) {
	td := aggDescFor(a.gbField, a.gbFieldType)
	out := make([]*storage.Tuple, 0, len(a.order))
	for _, key := range a.order {
		t := storage.NewTuple(td)
		if a.gbField == NoGrouping {
			_ = t.SetField(0, types.NewIntField(a.counts[key]))
		} else {
			_ = t.SetField(0, key)
			_ = t.SetField(1, types.NewIntField(a.counts[key]))
		}
		out = append(out, t)
	}
	return out, nil
}
