package execution

import (
	"fmt"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// TupleSource is a leaf operator over an in-memory slice of tuples, the
// Go analogue of wrapping a List<Tuple> in an OpIterator — used to feed
// externally-produced rows (e.g. a parsed CSV row) into Insert/Delete
// without a backing HeapFile.
type TupleSource struct {
	td     *storage.TupleDesc
	tuples []*storage.Tuple
	idx    int
}

func NewTupleSource(td *storage.TupleDesc, tuples []*storage.Tuple) *TupleSource {
	return &TupleSource{td: td, tuples: tuples}
}

func (s *TupleSource) Open() error  { s.idx = 0; return nil }
func (s *TupleSource) Close() error { return nil }
func (s *TupleSource) Rewind() error {
	s.idx = 0
	return nil
}

func (s *TupleSource) HasNext() (bool, error) { return s.idx < len(s.tuples), nil }

func (s *TupleSource) Next() (*storage.Tuple, error) {
	if s.idx >= len(s.tuples) {
		return nil, fmt.Errorf("%w: tuple source exhausted", types.ErrNoSuchElement)
	}
	t := s.tuples[s.idx]
	s.idx++
	return t, nil
}

func (s *TupleSource) GetTupleDesc() *storage.TupleDesc { return s.td }
func (s *TupleSource) GetChildren() []Operator          { return nil }
func (s *TupleSource) SetChildren([]Operator)           {}
