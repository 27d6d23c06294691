// Package execution implements the pull-based relational operator
// algebra of spec §4.I: a tree of iterators that pull tuples from their
// children and from the buffer layer at the leaves.
//
// Every operator follows the state machine: Closed -> [Open] -> Ready ->
// [Next*/HasNext*] -> Ready|Exhausted -> [Close] -> Closed. Rewind takes
// Ready or Exhausted back to Ready. Next is undefined before Open or
// after Close; HasNext is idempotent between calls to Next.
package execution

import "github.com/shubhamnegi/simpledb/storage"

// Operator is the interface every node of the operator tree implements.
type Operator interface {
	Open() error
	Close() error
	Rewind() error
	HasNext() (bool, error)
	Next() (*storage.Tuple, error)
	GetTupleDesc() *storage.TupleDesc
	GetChildren() []Operator
	SetChildren([]Operator)
}
