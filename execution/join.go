package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// JoinPredicate compares one field of a left tuple against one field of
// a right tuple under op.
type JoinPredicate struct {
	LeftField  int
	Op         types.Op
	RightField int
}

func (jp JoinPredicate) Filter(left, right *storage.Tuple) (bool, error) {
	lf, err := left.Field(jp.LeftField)
	if err != nil {
		return false, err
	}
	rf, err := right.Field(jp.RightField)
	if err != nil {
		return false, err
	}
	return lf.Compare(jp.Op, rf)
}

// merge concatenates left's and right's fields into one tuple of the
// merged schema.
func merge(td *storage.TupleDesc, left, right *storage.Tuple) (*storage.Tuple, error) {
	out := storage.NewTuple(td)
	n := left.TupleDesc().NumFields()
	for i := 0; i < n; i++ {
		f, err := left.Field(i)
		if err != nil {
			return nil, err
		}
		if err := out.SetField(i, f); err != nil {
			return nil, err
		}
	}
	m := right.TupleDesc().NumFields()
	for i := 0; i < m; i++ {
		f, err := right.Field(i)
		if err != nil {
			return nil, err
		}
		if err := out.SetField(n+i, f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Join is a nested-loop join: for each left tuple, the right child is
// rewound and every matching right tuple is merged with it.
type Join struct {
	predicate JoinPredicate
	left      Operator
	right     Operator
	td        *storage.TupleDesc

	curLeft *storage.Tuple

	pending    *storage.Tuple
	hasPending bool
}

func NewJoin(predicate JoinPredicate, left, right Operator) *Join {
	return &Join{
		predicate: predicate,
		left:      left,
		right:     right,
		td:        storage.Merge(left.GetTupleDesc(), right.GetTupleDesc()),
	}
}

func (j *Join) Open() error {
	j.curLeft = nil
	j.hasPending = false
	j.pending = nil
	if err := j.left.Open(); err != nil {
		return err
	}
	return j.right.Open()
}

func (j *Join) Close() error {
	j.curLeft = nil
	j.hasPending = false
	j.pending = nil
	if err := j.left.Close(); err != nil {
		return err
	}
	return j.right.Close()
}

func (j *Join) Rewind() error {
	j.curLeft = nil
	j.hasPending = false
	j.pending = nil
	if err := j.left.Rewind(); err != nil {
		return err
	}
	return j.right.Rewind()
}

func (j *Join) HasNext() (bool, error) {
	if j.hasPending {
		return true, nil
	}
	for {
		if j.curLeft == nil {
			ok, err := j.left.HasNext()
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			t, err := j.left.Next()
			if err != nil {
				return false, err
			}
			j.curLeft = t
			if err := j.right.Rewind(); err != nil {
				return false, err
			}
		}

		ok, err := j.right.HasNext()
		if err != nil {
			return false, err
		}
		if !ok {
			j.curLeft = nil
			continue
		}
		rt, err := j.right.Next()
		if err != nil {
			return false, err
		}
		pass, err := j.predicate.Filter(j.curLeft, rt)
		if err != nil {
			return false, err
		}
		if !pass {
			continue
		}
		merged, err := merge(j.td, j.curLeft, rt)
		if err != nil {
			return false, err
		}
		j.pending = merged
		j.hasPending = true
		return true, nil
	}
}

func (j *Join) Next() (*storage.Tuple, error) {
	if !j.hasPending {
		ok, err := j.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: join exhausted", types.ErrNoSuchElement)
		}
	}
	t := j.pending
	j.pending = nil
	j.hasPending = false
	return t, nil
}

func (j *Join) GetTupleDesc() *storage.TupleDesc { return j.td }
func (j *Join) GetChildren() []Operator          { return []Operator{j.left, j.right} }
func (j *Join) SetChildren(children []Operator) {
	j.left, j.right = children[0], children[1]
}
