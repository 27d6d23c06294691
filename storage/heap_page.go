package storage

// Heap page layout (spec §6):
//
//	[ header: headerSize bytes ][ slot 0 ][ slot 1 ] ... [ slot numSlots-1 ]
//
// The header is a bitmap, one bit per slot, bit i living at byte i/8, bit
// i%8 (slot 0 is the least significant bit of header[0]). A set bit means
// the slot holds a live tuple. An empty slot's bytes are skipped when a
// page is decoded; Serialize writes them as zero bytes.
//
//	numSlots   = floor((pageSize * 8) / (tupleSize * 8 + 1))
//	headerSize = ceil(numSlots / 8)

import (
	"bytes"
	"fmt"

	"github.com/shubhamnegi/simpledb/types"
)

// DefaultPageSize is the on-disk page width used when no config overrides
// it.
const DefaultPageSize = 4096

// PageSize is the page width, in bytes, used by every HeapFile in this
// process. It's a package variable rather than a constant because
// dbcontext.New sets it from config.Config.PageSize at startup.
var PageSize = DefaultPageSize

// NumSlots returns the number of fixed tuple slots a page of this schema
// holds, given the current PageSize.
func NumSlots(td *TupleDesc) int {
	tupleBits := td.Size()*8 + 1
	return (PageSize * 8) / tupleBits
}

// HeaderSize returns the number of bitmap bytes needed for numSlots slots.
func HeaderSize(numSlots int) int {
	return (numSlots + 7) / 8
}

// HeapPage is a decoded page: its identity, a header bitmap, a fixed
// array of tuple slots, a dirty bit with the dirtying transaction, and a
// before-image captured at the last clean point.
type HeapPage struct {
	pid      types.PageID
	td       *TupleDesc
	numSlots int
	header   []byte
	slots    []*Tuple

	dirty   bool
	dirtyBy types.TxID

	beforeImage []byte
}

// NewHeapPage decodes a page from its raw on-disk bytes. data must be
// exactly PageSize bytes.
func NewHeapPage(pid types.PageID, td *TupleDesc, data []byte) (*HeapPage, error) {
	if len(data) != PageSize {
		return nil, fmt.Errorf("%w: heap page for %s is %d bytes, want %d", types.ErrIO, pid, len(data), PageSize)
	}
	numSlots := NumSlots(td)
	headerSize := HeaderSize(numSlots)

	p := &HeapPage{
		pid:         pid,
		td:          td,
		numSlots:    numSlots,
		header:      append([]byte(nil), data[:headerSize]...),
		slots:       make([]*Tuple, numSlots),
		beforeImage: append([]byte(nil), data...),
	}

	r := bytes.NewReader(data[headerSize:])
	tupleSize := td.Size()
	for i := 0; i < numSlots; i++ {
		slotBytes := make([]byte, tupleSize)
		if _, err := r.Read(slotBytes); err != nil {
			return nil, fmt.Errorf("%w: reading slot %d of %s: %v", types.ErrIO, i, pid, err)
		}
		if !p.slotUsed(i) {
			continue
		}
		t, err := decodeTuple(td, slotBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding slot %d of %s: %v", types.ErrIO, i, pid, err)
		}
		t.SetRecordID(types.RecordID{PID: pid, SlotNo: i})
		p.slots[i] = t
	}
	return p, nil
}

// NewEmptyHeapPage builds a page with every slot marked empty, the shape
// HeapFile.AppendEmptyPage writes when growing a file.
func NewEmptyHeapPage(pid types.PageID, td *TupleDesc) *HeapPage {
	numSlots := NumSlots(td)
	p := &HeapPage{
		pid:      pid,
		td:       td,
		numSlots: numSlots,
		header:   make([]byte, HeaderSize(numSlots)),
		slots:    make([]*Tuple, numSlots),
	}
	p.beforeImage = p.Serialize()
	return p
}

func decodeTuple(td *TupleDesc, data []byte) (*Tuple, error) {
	r := bytes.NewReader(data)
	t := NewTuple(td)
	for i := 0; i < td.NumFields(); i++ {
		ft, err := td.FieldType(i)
		if err != nil {
			return nil, err
		}
		var f types.Field
		switch ft {
		case types.IntType:
			f, err = types.DecodeIntField(r)
		case types.StringType:
			f, err = types.DecodeStringField(r)
		default:
			return nil, fmt.Errorf("storage: unknown field type %v", ft)
		}
		if err != nil {
			return nil, err
		}
		if err := t.SetField(i, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *HeapPage) PageID() types.PageID  { return p.pid }
func (p *HeapPage) TupleDesc() *TupleDesc { return p.td }
func (p *HeapPage) NumSlots() int         { return p.numSlots }

func (p *HeapPage) slotUsed(i int) bool {
	return p.header[i/8]&(1<<(uint(i)%8)) != 0
}

func (p *HeapPage) setSlotUsed(i int, used bool) {
	mask := byte(1 << (uint(i) % 8))
	if used {
		p.header[i/8] |= mask
	} else {
		p.header[i/8] &^= mask
	}
}

// EmptySlots returns the number of unoccupied slots on the page.
func (p *HeapPage) EmptySlots() int {
	n := 0
	for i := 0; i < p.numSlots; i++ {
		if !p.slotUsed(i) {
			n++
		}
	}
	return n
}

// Tuples returns the page's live tuples in slot order.
func (p *HeapPage) Tuples() []*Tuple {
	out := make([]*Tuple, 0, p.numSlots)
	for _, t := range p.slots {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// InsertTuple places t into the first empty slot. t's schema must match
// the page's. Returns ErrNoSpace if every slot is occupied.
func (p *HeapPage) InsertTuple(t *Tuple) error {
	if !t.TupleDesc().Equals(p.td) {
		return fmt.Errorf("%w: tuple schema %s does not match page schema %s", types.ErrSchemaMismatch, t.TupleDesc(), p.td)
	}
	for i := 0; i < p.numSlots; i++ {
		if p.slotUsed(i) {
			continue
		}
		clone := t.Clone()
		clone.SetRecordID(types.RecordID{PID: p.pid, SlotNo: i})
		p.slots[i] = clone
		p.setSlotUsed(i, true)
		return nil
	}
	return fmt.Errorf("%w: page %s has no empty slots", types.ErrNoSpace, p.pid)
}

// DeleteTuple clears t's slot. t must carry a RecordID naming a live slot
// on this page, and the tuple stored in that slot must match t field for
// field — a stale handle whose slot has since been reused for a different
// tuple is rejected rather than silently clearing someone else's row.
func (p *HeapPage) DeleteTuple(t *Tuple) error {
	rid := t.RecordID()
	if rid == nil || rid.PID != p.pid {
		return fmt.Errorf("%w: tuple is not bound to page %s", types.ErrNotOnPage, p.pid)
	}
	if rid.SlotNo < 0 || rid.SlotNo >= p.numSlots || !p.slotUsed(rid.SlotNo) {
		return fmt.Errorf("%w: slot %d on page %s is not occupied", types.ErrNotOnPage, rid.SlotNo, p.pid)
	}
	if stored := p.slots[rid.SlotNo]; !t.Equals(stored) {
		return fmt.Errorf("%w: tuple does not match the one stored in slot %d on page %s", types.ErrNotOnPage, rid.SlotNo, p.pid)
	}
	p.slots[rid.SlotNo] = nil
	p.setSlotUsed(rid.SlotNo, false)
	return nil
}

// Serialize encodes the page back to exactly PageSize bytes.
func (p *HeapPage) Serialize() []byte {
	buf := new(bytes.Buffer)
	buf.Write(p.header)
	tupleSize := p.td.Size()
	for i := 0; i < p.numSlots; i++ {
		if t := p.slots[i]; t != nil {
			for j := 0; j < p.td.NumFields(); j++ {
				f, _ := t.Field(j)
				_ = f.Encode(buf)
			}
			continue
		}
		buf.Write(make([]byte, tupleSize))
	}
	out := buf.Bytes()
	if len(out) < PageSize {
		out = append(out, make([]byte, PageSize-len(out))...)
	}
	return out[:PageSize]
}

func (p *HeapPage) MarkDirty(dirty bool, tid types.TxID) {
	p.dirty = dirty
	if dirty {
		p.dirtyBy = tid
	}
}

func (p *HeapPage) IsDirty() (bool, types.TxID) { return p.dirty, p.dirtyBy }

// BeforeImage decodes the page's before-image snapshot as a standalone
// HeapPage, the shape the BufferPool hands the log on commit.
func (p *HeapPage) BeforeImage() (*HeapPage, error) {
	return NewHeapPage(p.pid, p.td, p.beforeImage)
}

// SetBeforeImage snapshots the page's current serialized bytes as its new
// before-image. BufferPool calls it once a committing transaction's
// changes to the page have been written to disk; a page re-read after an
// abort takes its before-image from the bytes it was decoded from.
func (p *HeapPage) SetBeforeImage() {
	p.beforeImage = p.Serialize()
}
