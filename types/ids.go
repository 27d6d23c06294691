package types

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// TxID identifies a transaction for the lifetime of the transaction. The
// zero value is never issued by NewTxID, so it is safe to use as a
// "no transaction" sentinel in maps.
type TxID uint64

var nextTxID uint64

// NewTxID hands out a fresh, process-unique transaction identifier.
func NewTxID() TxID {
	return TxID(atomic.AddUint64(&nextTxID, 1))
}

func (t TxID) String() string { return fmt.Sprintf("tx%d", uint64(t)) }

// PageID names a page within a table. TableID is a stable hash of the
// table's absolute backing-file path (see TableIDFromPath), not a
// sequential counter, so the same file always maps to the same id across
// process restarts.
type PageID struct {
	TableID uint64
	PageNo  uint32
}

// TableIDFromPath derives a stable table id from a heap file's absolute
// path. Two catalog entries pointing at the same file collide on purpose;
// two different files practically never do.
func TableIDFromPath(absPath string) uint64 {
	return xxhash.Sum64String(absPath)
}

// Hash returns a single uint64 suitable as a map key or cache key for this
// page identity.
func (p PageID) Hash() uint64 {
	h := xxhash.New()
	var buf [12]byte
	buf[0] = byte(p.TableID)
	buf[1] = byte(p.TableID >> 8)
	buf[2] = byte(p.TableID >> 16)
	buf[3] = byte(p.TableID >> 24)
	buf[4] = byte(p.TableID >> 32)
	buf[5] = byte(p.TableID >> 40)
	buf[6] = byte(p.TableID >> 48)
	buf[7] = byte(p.TableID >> 56)
	buf[8] = byte(p.PageNo)
	buf[9] = byte(p.PageNo >> 8)
	buf[10] = byte(p.PageNo >> 16)
	buf[11] = byte(p.PageNo >> 24)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func (p PageID) String() string { return fmt.Sprintf("page(%d,%d)", p.TableID, p.PageNo) }

// RecordID names a tuple's on-disk slot: its page plus a slot number
// within that page's fixed slot array.
type RecordID struct {
	PID    PageID
	SlotNo int
}

func (r RecordID) String() string {
	return fmt.Sprintf("rid(%s,%d)", r.PID, r.SlotNo)
}

// Equals reports whether two record ids name the same slot.
func (r RecordID) Equals(other RecordID) bool {
	return r.PID == other.PID && r.SlotNo == other.SlotNo
}
