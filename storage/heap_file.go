package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shubhamnegi/simpledb/types"
)

// HeapFile is a sequence of fixed-size pages backing one table. Its table
// id is the stable hash of the file's absolute path (see
// types.TableIDFromPath), so the same file maps to the same id on every
// restart without a persisted counter.
//
// A HeapFile holds no open *os.File — every ReadPage/WritePage call opens
// its own descriptor and closes it before returning, matching the
// "accessed only under a per-call file descriptor" resource model. growMu
// serializes the read-stat-append sequence that grows the file, since two
// transactions racing to insert into a full file must not both append a
// page for the same offset.
type HeapFile struct {
	path    string
	td      *TupleDesc
	tableID uint64
	growMu  sync.Mutex
}

// NewHeapFile opens (creating if absent) the backing file at path for a
// table of the given schema.
func NewHeapFile(path string, td *TupleDesc) (*HeapFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving path %s: %v", types.ErrIO, path, err)
	}
	f, err := os.OpenFile(abs, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening heap file %s: %v", types.ErrIO, abs, err)
	}
	f.Close()
	return &HeapFile{path: abs, td: td, tableID: types.TableIDFromPath(abs)}, nil
}

func (hf *HeapFile) TableID() uint64       { return hf.tableID }
func (hf *HeapFile) Path() string          { return hf.path }
func (hf *HeapFile) TupleDesc() *TupleDesc { return hf.td }

func (hf *HeapFile) fileSize() (int64, error) {
	info, err := os.Stat(hf.path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %v", types.ErrIO, hf.path, err)
	}
	return info.Size(), nil
}

// NumPages returns floor(fileLength / PageSize).
func (hf *HeapFile) NumPages() (int, error) {
	size, err := hf.fileSize()
	if err != nil {
		return 0, err
	}
	return int(size / int64(PageSize)), nil
}

// ReadPage seeks to pid.PageNo*PageSize and reads exactly PageSize bytes.
func (hf *HeapFile) ReadPage(pid types.PageID) (*HeapPage, error) {
	f, err := os.Open(hf.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrIO, hf.path, err)
	}
	defer f.Close()

	offset := int64(pid.PageNo) * int64(PageSize)
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", types.ErrIO, hf.path, err)
	}
	if offset+int64(PageSize) > stat.Size() {
		return nil, fmt.Errorf("%w: page %s at offset %d exceeds file length %d", types.ErrPageOutOfRange, pid, offset, stat.Size())
	}

	buf := make([]byte, PageSize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("%w: reading page %s: %v", types.ErrIO, pid, err)
	}
	return NewHeapPage(pid, hf.td, buf)
}

// WritePage seeks and writes PageSize bytes, clearing the dirty bit on
// success.
func (hf *HeapFile) WritePage(p *HeapPage) error {
	f, err := os.OpenFile(hf.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", types.ErrIO, hf.path, err)
	}
	defer f.Close()

	offset := int64(p.PageID().PageNo) * int64(PageSize)
	if _, err := f.WriteAt(p.Serialize(), offset); err != nil {
		return fmt.Errorf("%w: writing page %s: %v", types.ErrIO, p.PageID(), err)
	}
	p.MarkDirty(false, 0)
	return nil
}

// AppendEmptyPage extends the file by exactly one PageSize-sized empty
// page and writes it to disk, returning its decoded form. This is the
// only operation that grows the file, so it holds growMu for its
// stat-then-write sequence.
func (hf *HeapFile) AppendEmptyPage() (*HeapPage, error) {
	hf.growMu.Lock()
	defer hf.growMu.Unlock()

	n, err := hf.NumPages()
	if err != nil {
		return nil, err
	}
	pid := types.PageID{TableID: hf.tableID, PageNo: uint32(n)}
	p := NewEmptyHeapPage(pid, hf.td)
	if err := hf.WritePage(p); err != nil {
		return nil, err
	}
	return p, nil
}

// InsertTuple scans pages in order through pool with ReadWrite
// permission, inserting into the first page with a free slot. If none
// has space it appends an empty page and inserts there. Returns the
// pages it dirtied and, if it had to grow the file to make room, the
// id of the page it appended — the caller needs that id to roll the
// growth back if the transaction later aborts.
func (hf *HeapFile) InsertTuple(pool *BufferPool, tid types.TxID, t *Tuple) ([]*HeapPage, *types.PageID, error) {
	n, err := hf.NumPages()
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < n; i++ {
		pid := types.PageID{TableID: hf.tableID, PageNo: uint32(i)}
		p, err := pool.GetPage(tid, pid, types.ReadWrite)
		if err != nil {
			return nil, nil, err
		}
		if err := p.InsertTuple(t); err != nil {
			if errors.Is(err, types.ErrNoSpace) {
				continue
			}
			return nil, nil, err
		}
		p.MarkDirty(true, tid)
		return []*HeapPage{p}, nil, nil
	}

	if _, err := hf.AppendEmptyPage(); err != nil {
		return nil, nil, err
	}
	pid := types.PageID{TableID: hf.tableID, PageNo: uint32(n)}
	p, err := pool.GetPage(tid, pid, types.ReadWrite)
	if err != nil {
		return nil, nil, err
	}
	if err := p.InsertTuple(t); err != nil {
		return nil, nil, err
	}
	p.MarkDirty(true, tid)
	return []*HeapPage{p}, &pid, nil
}

// Truncate shrinks the file to exactly numPages pages. The only caller
// is BufferPool's abort path, rolling back a page that was appended to
// serve an insert whose owning transaction then aborted. If some other
// transaction has since appended pages past it, the rollback is skipped
// for that page rather than truncating pages a committed transaction
// relies on — it's left behind as a permanently empty page.
func (hf *HeapFile) Truncate(numPages int) error {
	hf.growMu.Lock()
	defer hf.growMu.Unlock()
	if err := os.Truncate(hf.path, int64(numPages)*int64(PageSize)); err != nil {
		return fmt.Errorf("%w: truncating %s: %v", types.ErrIO, hf.path, err)
	}
	return nil
}

// DeleteTuple fetches the page named by t's RecordID with ReadWrite
// permission and deletes t from it.
func (hf *HeapFile) DeleteTuple(pool *BufferPool, tid types.TxID, t *Tuple) (*HeapPage, error) {
	rid := t.RecordID()
	if rid == nil {
		return nil, fmt.Errorf("%w: tuple has no RecordID", types.ErrNotOnPage)
	}
	p, err := pool.GetPage(tid, rid.PID, types.ReadWrite)
	if err != nil {
		return nil, err
	}
	if err := p.DeleteTuple(t); err != nil {
		return nil, err
	}
	p.MarkDirty(true, tid)
	return p, nil
}

// HeapFileIterator is the cursor described in spec §4.E: opens at page 0,
// reads through the BufferPool with ReadOnly permission, advances past
// exhausted pages, and terminates at NumPages().
type HeapFileIterator struct {
	hf     *HeapFile
	pool   *BufferPool
	tid    types.TxID
	pageNo int
	tuples []*Tuple
	idx    int
	opened bool
}

// Iterator returns a fresh cursor over hf under tid. The cursor isn't
// usable until Open is called.
func (hf *HeapFile) Iterator(pool *BufferPool, tid types.TxID) *HeapFileIterator {
	return &HeapFileIterator{hf: hf, pool: pool, tid: tid}
}

func (it *HeapFileIterator) Open() error {
	it.pageNo = 0
	it.tuples = nil
	it.idx = 0
	it.opened = true
	return it.advanceToNonEmptyPage()
}

func (it *HeapFileIterator) advanceToNonEmptyPage() error {
	n, err := it.hf.NumPages()
	if err != nil {
		return err
	}
	for it.pageNo < n {
		pid := types.PageID{TableID: it.hf.tableID, PageNo: uint32(it.pageNo)}
		p, err := it.pool.GetPage(it.tid, pid, types.ReadOnly)
		if err != nil {
			return err
		}
		it.pageNo++
		if tuples := p.Tuples(); len(tuples) > 0 {
			it.tuples = tuples
			it.idx = 0
			return nil
		}
	}
	it.tuples = nil
	return nil
}

func (it *HeapFileIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("%w: heap file iterator used before Open", types.ErrNoSuchElement)
	}
	if it.tuples != nil && it.idx < len(it.tuples) {
		return true, nil
	}
	if err := it.advanceToNonEmptyPage(); err != nil {
		return false, err
	}
	return it.tuples != nil && it.idx < len(it.tuples), nil
}

func (it *HeapFileIterator) Next() (*Tuple, error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: heap file iterator exhausted", types.ErrNoSuchElement)
	}
	t := it.tuples[it.idx]
	it.idx++
	return t, nil
}

func (it *HeapFileIterator) Rewind() error {
	it.Close()
	return it.Open()
}

func (it *HeapFileIterator) Close() {
	it.opened = false
	it.tuples = nil
	it.idx = 0
}
