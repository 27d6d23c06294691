package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// Aggregate consumes its entire child on Open, builds a per-group
// accumulator (IntAggregator for an INT afield, StringAggregator for a
// STRING afield), and exposes an iterator over the resulting tuples.
//
// The accumulator is consulted once, at Open, to build a plain []Tuple —
// there's no live back-reference from the result iterator into the
// accumulator, so Close/reopen never risks reading a half-mutated group
// map.
type Aggregate struct {
	child   Operator
	aField  int
	gField  int
	op      AggOp
	td      *storage.TupleDesc

	results []*storage.Tuple
	idx     int
}

func NewAggregate(child Operator, aField, gField int, op AggOp) *Aggregate {
	childTD := child.GetTupleDesc()
	var gbFieldType types.Type
	if gField != NoGrouping {
		gbFieldType, _ = childTD.FieldType(gField)
	}
	return &Aggregate{
		child:  child,
		aField: aField,
		gField: gField,
		op:     op,
		td:     aggDescFor(gField, gbFieldType),
	}
}

func (a *Aggregate) Open() error {
	if err := a.child.Open(); err != nil {
		return err
	}

	childTD := a.child.GetTupleDesc()
	aType, err := childTD.FieldType(a.aField)
	if err != nil {
		return err
	}

	var gbType types.Type
	if a.gField != NoGrouping {
		gbType, err = childTD.FieldType(a.gField)
		if err != nil {
			return err
		}
	}

	switch aType {
	case types.IntType:
		agg := NewIntAggregator(a.gField, gbType, a.aField, a.op)
		for {
			ok, err := a.child.HasNext()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			t, err := a.child.Next()
			if err != nil {
				return err
			}
			if err := agg.MergeTupleIntoGroup(t); err != nil {
				return err
			}
		}
		a.results, err = agg.Results()
		if err != nil {
			return err
		}
	case types.StringType:
		agg, err := NewStringAggregator(a.gField, gbType, a.aField, a.op)
		if err != nil {
			return err
		}
		for {
			ok, err := a.child.HasNext()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			t, err := a.child.Next()
			if err != nil {
				return err
			}
			if err := agg.MergeTupleIntoGroup(t); err != nil {
				return err
			}
		}
		a.results, err = agg.Results()
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown field type for aggregate field %d", types.ErrInvalidAgg, a.aField)
	}

	a.idx = 0
	return nil
}

func (a *Aggregate) Close() error {
	a.results = nil
	a.idx = 0
	return a.child.Close()
}

func (a *Aggregate) Rewind() error {
	a.idx = 0
	return nil
}

func (a *Aggregate) HasNext() (bool, error) {
	return a.idx < len(a.results), nil
}

func (a *Aggregate) Next() (*storage.Tuple, error) {
	if a.idx >= len(a.results) {
		return nil, fmt.Errorf("%w: aggregate exhausted", types.ErrNoSuchElement)
	}
	t := a.results[a.idx]
	a.idx++
	return t, nil
}

func (a *Aggregate) GetTupleDesc() *storage.TupleDesc { return a.td }
func (a *Aggregate) GetChildren() []Operator          { return []Operator{a.child} }
func (a *Aggregate) SetChildren(children []Operator)  { a.child = children[0] }
