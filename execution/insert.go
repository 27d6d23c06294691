package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// insertTupleDesc is the fixed single-INT-field output schema of Insert.
var insertTupleDesc = storage.NewTupleDesc([]types.Type{types.IntType}, []string{"insertNums"})

// Insert drains its child on the first Next, calling
// BufferPool.InsertTuple for each tuple, and yields a single
// "insertNums" tuple. Subsequent Next calls yield nothing — the state
// machine has already moved to Exhausted.
type Insert struct {
	tid     types.TxID
	tableID uint64
	child   Operator
	pool    *storage.BufferPool

	result *storage.Tuple
	done   bool
}

func NewInsert(tid types.TxID, child Operator, tableID uint64, pool *storage.BufferPool) *Insert {
	return &Insert{tid: tid, tableID: tableID, child: child, pool: pool}
}

func (in *Insert) Open() error {
	in.result = nil
	in.done = false
	return in.child.Open()
}

func (in *Insert) Close() error {
	return in.child.Close()
}

func (in *Insert) Rewind() error {
	in.result = nil
	in.done = false
	return in.child.Rewind()
}

func (in *Insert) HasNext() (bool, error) { return !in.done, nil }

func (in *Insert) Next() (*storage.Tuple, error) {
	if in.done {
		return nil, fmt.Errorf("%w: insert exhausted", types.ErrNoSuchElement)
	}
	in.done = true

	var count int32
	for {
		ok, err := in.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := in.child.Next()
		if err != nil {
			return nil, err
		}
		if err := in.pool.InsertTuple(in.tid, in.tableID, t); err != nil {
			return nil, err
		}
		count++
	}

	in.result = storage.NewTuple(insertTupleDesc)
	_ = in.result.SetField(0, types.NewIntField(count))
	return in.result, nil
}

func (in *Insert) GetTupleDesc() *storage.TupleDesc { return insertTupleDesc }
func (in *Insert) GetChildren() []Operator          { return []Operator{in.child} }
func (in *Insert) SetChildren(children []Operator)  { in.child = children[0] }
