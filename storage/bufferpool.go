package storage

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shubhamnegi/simpledb/txn"
	"github.com/shubhamnegi/simpledb/txnlog"
	"github.com/shubhamnegi/simpledb/types"
	"github.com/sirupsen/logrus"
)

// FileResolver maps a table id to the HeapFile backing it. Catalog
// implements this; BufferPool depends only on the interface so this
// package never imports catalog (which imports storage).
type FileResolver interface {
	ResolveFile(tableID uint64) (*HeapFile, error)
}

const (
	// DefaultLockWaitTimeout is how long GetPage polls the LockManager
	// before aborting the transaction.
	DefaultLockWaitTimeout = 500 * time.Millisecond
	// DefaultLockPollInterval is the base delay between Acquire polls.
	DefaultLockPollInterval = 50 * time.Millisecond
	lockPollJitter          = 10 * time.Millisecond
)

// BufferPool is the bounded LRU cache of spec §4.H: capacity is fixed, a
// dirty page is never chosen for eviction (NO-STEAL), and a cached page
// is always the latest in-memory version.
type BufferPool struct {
	mu       sync.Mutex
	capacity int
	pages    map[types.PageID]*HeapPage
	order    []types.PageID // LRU order, most-recently-used at the end

	resolver FileResolver
	locks    *txn.LockManager
	log      txnlog.LogFile

	// appended tracks, per live transaction, the pages it appended to a
	// HeapFile to make room for an insert. On abort these are truncated
	// back off the file rather than left as permanent empty pages.
	appended map[types.TxID][]types.PageID

	lockTimeout      time.Duration
	lockPollInterval time.Duration

	logger *logrus.Entry
}

func NewBufferPool(capacity int, resolver FileResolver, locks *txn.LockManager, log txnlog.LogFile) *BufferPool {
	return &BufferPool{
		capacity:         capacity,
		pages:            make(map[types.PageID]*HeapPage, capacity),
		order:            make([]types.PageID, 0, capacity),
		resolver:         resolver,
		locks:            locks,
		log:              log,
		lockTimeout:      DefaultLockWaitTimeout,
		lockPollInterval: DefaultLockPollInterval,
		logger:           logrus.WithField("component", "buffer_pool"),
	}
}

func (bp *BufferPool) SetLockWaitTimeout(d time.Duration)  { bp.lockTimeout = d }
func (bp *BufferPool) SetLockPollInterval(d time.Duration) { bp.lockPollInterval = d }
func (bp *BufferPool) Capacity() int                       { return bp.capacity }

func permToMode(perm types.Permission) txn.LockMode {
	if perm == types.ReadWrite {
		return txn.Exclusive
	}
	return txn.Shared
}

// GetPage is the central chokepoint of spec §4.H: acquire the lock
// (polling until granted or the deadline elapses), then serve from cache
// or fault the page in from disk.
func (bp *BufferPool) GetPage(tid types.TxID, pid types.PageID, perm types.Permission) (*HeapPage, error) {
	mode := permToMode(perm)
	deadline := time.Now().Add(bp.lockTimeout)
	for !bp.locks.Acquire(tid, pid, mode) {
		if time.Now().After(deadline) {
			bp.logger.WithFields(logrus.Fields{"tid": tid, "pid": pid, "mode": mode}).Warn("lock wait timed out, aborting")
			return nil, fmt.Errorf("%w: timed out waiting for %s lock on %s", types.ErrTransactionAborted, mode, pid)
		}
		time.Sleep(bp.jitteredPoll())
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if p, ok := bp.pages[pid]; ok {
		bp.touch(pid)
		return p, nil
	}

	hf, err := bp.resolver.ResolveFile(pid.TableID)
	if err != nil {
		return nil, err
	}
	p, err := hf.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	if err := bp.putLocked(pid, p); err != nil {
		return nil, err
	}
	bp.logger.WithField("pid", pid).Trace("page fault, loaded from disk")
	return p, nil
}

func (bp *BufferPool) jitteredPoll() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(2*lockPollJitter))) - lockPollJitter
	d := bp.lockPollInterval + jitter
	if d <= 0 {
		return bp.lockPollInterval
	}
	return d
}

func (bp *BufferPool) touch(pid types.PageID) {
	for i, id := range bp.order {
		if id == pid {
			bp.order = append(bp.order[:i], bp.order[i+1:]...)
			break
		}
	}
	bp.order = append(bp.order, pid)
}

// putLocked inserts a freshly-loaded page, evicting if the pool is
// already at capacity. Callers must hold bp.mu.
func (bp *BufferPool) putLocked(pid types.PageID, p *HeapPage) error {
	if _, ok := bp.pages[pid]; !ok && len(bp.pages) >= bp.capacity {
		if err := bp.evictLocked(); err != nil {
			return err
		}
	}
	bp.pages[pid] = p
	bp.touch(pid)
	return nil
}

// evictLocked drops the least-recently-used clean page. NO-STEAL: a dirty
// page is never a candidate. Callers must hold bp.mu.
func (bp *BufferPool) evictLocked() error {
	for i, pid := range bp.order {
		p := bp.pages[pid]
		if p == nil {
			continue
		}
		if dirty, _ := p.IsDirty(); dirty {
			continue
		}
		delete(bp.pages, pid)
		bp.order = append(bp.order[:i], bp.order[i+1:]...)
		bp.logger.WithField("pid", pid).Trace("evicted clean page")
		return nil
	}
	return fmt.Errorf("%w: all %d cached pages are dirty", types.ErrCacheFull, len(bp.pages))
}

// InsertTuple delegates to the table's HeapFile, then caches and
// MRU-promotes every page it dirtied.
func (bp *BufferPool) InsertTuple(tid types.TxID, tableID uint64, t *Tuple) error {
	hf, err := bp.resolver.ResolveFile(tableID)
	if err != nil {
		return err
	}
	dirtied, appended, err := hf.InsertTuple(bp, tid, t)
	if err != nil {
		return err
	}
	bp.cacheDirtied(dirtied)
	if appended != nil {
		bp.trackAppend(tid, *appended)
	}
	return nil
}

func (bp *BufferPool) trackAppend(tid types.TxID, pid types.PageID) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.appended == nil {
		bp.appended = make(map[types.TxID][]types.PageID)
	}
	bp.appended[tid] = append(bp.appended[tid], pid)
}

// DeleteTuple delegates to t's owning HeapFile, resolved from t's
// RecordID.
func (bp *BufferPool) DeleteTuple(tid types.TxID, t *Tuple) error {
	rid := t.RecordID()
	if rid == nil {
		return fmt.Errorf("%w: tuple has no RecordID", types.ErrNotOnPage)
	}
	hf, err := bp.resolver.ResolveFile(rid.PID.TableID)
	if err != nil {
		return err
	}
	p, err := hf.DeleteTuple(bp, tid, t)
	if err != nil {
		return err
	}
	bp.cacheDirtied([]*HeapPage{p})
	return nil
}

func (bp *BufferPool) cacheDirtied(pages []*HeapPage) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for _, p := range pages {
		bp.pages[p.PageID()] = p
		bp.touch(p.PageID())
	}
}

// TransactionComplete implements spec §4.H's commit/abort protocol.
// Commit: every page tid dirtied is logged, flushed, cleared, and
// re-snapshotted as a before-image. Abort: every page tid dirtied is
// discarded and re-read from disk. Either way tid's locks are released.
func (bp *BufferPool) TransactionComplete(tid types.TxID, commit bool) error {
	bp.mu.Lock()
	var owned []*HeapPage
	for _, p := range bp.pages {
		if dirty, owner := p.IsDirty(); dirty && owner == tid {
			owned = append(owned, p)
		}
	}
	appended := bp.appended[tid]
	delete(bp.appended, tid)
	bp.mu.Unlock()

	if commit {
		for _, p := range owned {
			before, err := p.BeforeImage()
			if err != nil {
				return err
			}
			if bp.log != nil {
				if err := bp.log.LogWrite(tid, before.Serialize(), p.Serialize()); err != nil {
					return err
				}
			}
			hf, err := bp.resolver.ResolveFile(p.PageID().TableID)
			if err != nil {
				return err
			}
			if err := hf.WritePage(p); err != nil {
				return err
			}
			p.SetBeforeImage()
		}
	} else {
		for _, p := range owned {
			hf, err := bp.resolver.ResolveFile(p.PageID().TableID)
			if err != nil {
				return err
			}
			fresh, err := hf.ReadPage(p.PageID())
			if err != nil {
				return err
			}
			bp.mu.Lock()
			bp.pages[p.PageID()] = fresh
			bp.mu.Unlock()
		}
		bp.rollbackAppends(appended)
	}

	bp.locks.ReleaseAll(tid)
	return nil
}

// rollbackAppends undoes the file growth performed by an aborted
// transaction's inserts. It walks pids from the most recently appended
// backward, truncating each one off its file as long as it's still the
// file's trailing page — if a different transaction has since appended
// further pages past it, that page is left in place rather than
// truncating pages the other transaction relies on.
func (bp *BufferPool) rollbackAppends(pids []types.PageID) {
	for i := len(pids) - 1; i >= 0; i-- {
		pid := pids[i]
		hf, err := bp.resolver.ResolveFile(pid.TableID)
		if err != nil {
			continue
		}
		n, err := hf.NumPages()
		if err != nil {
			continue
		}
		if n == 0 || uint32(n-1) != pid.PageNo {
			bp.logger.WithField("pid", pid).Warn("leaving leaked empty page on abort, file grew further since append")
			continue
		}
		if err := hf.Truncate(n - 1); err != nil {
			bp.logger.WithField("pid", pid).Warn("failed to truncate leaked page on abort")
			continue
		}
		bp.RemovePage(pid)
	}
}

// FlushAllPages writes every dirty cached page to disk, regardless of
// which transaction owns it.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	pages := make([]*HeapPage, 0, len(bp.pages))
	for _, p := range bp.pages {
		pages = append(pages, p)
	}
	bp.mu.Unlock()

	for _, p := range pages {
		if dirty, _ := p.IsDirty(); !dirty {
			continue
		}
		hf, err := bp.resolver.ResolveFile(p.PageID().TableID)
		if err != nil {
			return err
		}
		if err := hf.WritePage(p); err != nil {
			return err
		}
	}
	return nil
}

// RemovePage drops pid from the cache without flushing it.
func (bp *BufferPool) RemovePage(pid types.PageID) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	delete(bp.pages, pid)
	for i, id := range bp.order {
		if id == pid {
			bp.order = append(bp.order[:i], bp.order[i+1:]...)
			break
		}
	}
}

func (bp *BufferPool) HoldsLock(tid types.TxID, pid types.PageID) bool {
	return bp.locks.HoldsLock(tid, pid)
}

// Stats renders a humanized snapshot of cache occupancy, in the spirit of
// the teacher's buffer pool trace lines.
func (bp *BufferPool) Stats() string {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	size := uint64(len(bp.pages)) * uint64(PageSize)
	return fmt.Sprintf("%d/%d pages cached (%s)", len(bp.pages), bp.capacity, humanize.Bytes(size))
}
