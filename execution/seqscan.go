package execution

import (
	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// SeqScan iterates every tuple of a table's HeapFile in slot order,
// pulling pages through the BufferPool. If alias is non-empty, every
// output field is renamed "alias.field".
type SeqScan struct {
	tid      types.TxID
	tableID  uint64
	alias    string
	pool     *storage.BufferPool
	resolver storage.FileResolver

	td *storage.TupleDesc
	it *storage.HeapFileIterator
}

func NewSeqScan(tid types.TxID, tableID uint64, alias string, pool *storage.BufferPool, resolver storage.FileResolver) (*SeqScan, error) {
	hf, err := resolver.ResolveFile(tableID)
	if err != nil {
		return nil, err
	}
	td := hf.TupleDesc()
	if alias != "" {
		td = td.WithAlias(alias)
	}
	return &SeqScan{
		tid:      tid,
		tableID:  tableID,
		alias:    alias,
		pool:     pool,
		resolver: resolver,
		td:       td,
	}, nil
}

func (s *SeqScan) Open() error {
	hf, err := s.resolver.ResolveFile(s.tableID)
	if err != nil {
		return err
	}
	s.it = hf.Iterator(s.pool, s.tid)
	return s.it.Open()
}

func (s *SeqScan) Close() error {
	if s.it != nil {
		s.it.Close()
	}
	return nil
}

func (s *SeqScan) Rewind() error {
	return s.it.Rewind()
}

func (s *SeqScan) HasNext() (bool, error) {
	return s.it.HasNext()
}

func (s *SeqScan) Next() (*storage.Tuple, error) {
	return s.it.Next()
}

func (s *SeqScan) GetTupleDesc() *storage.TupleDesc { return s.td }
func (s *SeqScan) GetChildren() []Operator          { return nil }
func (s *SeqScan) SetChildren([]Operator)           {}
