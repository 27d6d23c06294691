package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// Predicate is (fieldIndex, op, constant) — evaluating it against a tuple
// compares the tuple's fieldIndex-th field to constant under op.
type Predicate struct {
	FieldIndex int
	Op         types.Op
	Const      types.Field
}

func (p Predicate) Filter(t *storage.Tuple) (bool, error) {
	f, err := t.Field(p.FieldIndex)
	if err != nil {
		return false, err
	}
	return f.Compare(p.Op, p.Const)
}

// Filter yields child tuples for which predicate.Filter(t) is true.
// HasNext must be idempotent between Next calls, so a matching tuple
// found while scanning ahead is buffered in pending until Next consumes
// it.
type Filter struct {
	predicate Predicate
	child     Operator

	pending    *storage.Tuple
	hasPending bool
}

func NewFilter(predicate Predicate, child Operator) *Filter {
	return &Filter{predicate: predicate, child: child}
}

func (f *Filter) Open() error {
	f.hasPending = false
	f.pending = nil
	return f.child.Open()
}

func (f *Filter) Close() error {
	f.hasPending = false
	f.pending = nil
	return f.child.Close()
}

func (f *Filter) Rewind() error {
	f.hasPending = false
	f.pending = nil
	return f.child.Rewind()
}

func (f *Filter) HasNext() (bool, error) {
	if f.hasPending {
		return true, nil
	}
	for {
		ok, err := f.child.HasNext()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		t, err := f.child.Next()
		if err != nil {
			return false, err
		}
		pass, err := f.predicate.Filter(t)
		if err != nil {
			return false, err
		}
		if pass {
			f.pending = t
			f.hasPending = true
			return true, nil
		}
	}
}

func (f *Filter) Next() (*storage.Tuple, error) {
	if !f.hasPending {
		ok, err := f.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: filter exhausted", types.ErrNoSuchElement)
		}
	}
	t := f.pending
	f.pending = nil
	f.hasPending = false
	return t, nil
}

func (f *Filter) GetTupleDesc() *storage.TupleDesc { return f.child.GetTupleDesc() }
func (f *Filter) GetChildren() []Operator          { return []Operator{f.child} }
func (f *Filter) SetChildren(children []Operator)  { f.child = children[0] }
