package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

var deleteTupleDesc = storage.NewTupleDesc([]types.Type{types.IntType}, []string{"deleteNums"})

// Delete is Insert's mirror image: it drains its child on the first
// Next, deleting each tuple via BufferPool.DeleteTuple (which resolves
// the owning table from the tuple's RecordID), and yields a single
// "deleteNums" tuple.
type Delete struct {
	tid   types.TxID
	child Operator
	pool  *storage.BufferPool

	result *storage.Tuple
	done   bool
}

func NewDelete(tid types.TxID, child Operator, pool *storage.BufferPool) *Delete {
	return &Delete{tid: tid, child: child, pool: pool}
}

func (d *Delete) Open() error {
	d.result = nil
	d.done = false
	return d.child.Open()
}

func (d *Delete) Close() error {
	return d.child.Close()
}

func (d *Delete) Rewind() error {
	d.result = nil
	d.done = false
	return d.child.Rewind()
}

func (d *Delete) HasNext() (bool, error) { return !d.done, nil }

func (d *Delete) Next() (*storage.Tuple, error) {
	if d.done {
		return nil, fmt.Errorf("%w: delete exhausted", types.ErrNoSuchElement)
	}
	d.done = true

	var count int32
	for {
		ok, err := d.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := d.child.Next()
		if err != nil {
			return nil, err
		}
		if err := d.pool.DeleteTuple(d.tid, t); err != nil {
			return nil, err
		}
		count++
	}

	d.result = storage.NewTuple(deleteTupleDesc)
	_ = d.result.SetField(0, types.NewIntField(count))
	return d.result, nil
}

func (d *Delete) GetTupleDesc() *storage.TupleDesc { return deleteTupleDesc }
func (d *Delete) GetChildren() []Operator          { return []Operator{d.child} }
func (d *Delete) SetChildren(children []Operator)  { d.child = children[0] }
