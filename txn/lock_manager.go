// Package txn implements strict two-phase locking at page granularity.
// Deadlock is handled by timeout, not by a wait-for graph: a caller
// polling Acquire past its deadline aborts.
package txn

import (
	"sync"

	"github.com/shubhamnegi/simpledb/types"
	"github.com/sirupsen/logrus"
)

// LockMode is the granted mode a transaction holds on a page.
type LockMode int

const (
	Shared LockMode = iota
	Exclusive
)

func (m LockMode) String() string {
	if m == Exclusive {
		return "EXCLUSIVE"
	}
	return "SHARED"
}

// LockManager holds, for every locked PageID, the set of transactions
// holding it and their mode. A single mutex serializes every call, per
// spec §5 ("separate mutex; all acquire/release calls serialized").
type LockManager struct {
	mu    sync.Mutex
	locks map[types.PageID]map[types.TxID]LockMode
	log   *logrus.Entry
}

func NewLockManager() *LockManager {
	return &LockManager{
		locks: make(map[types.PageID]map[types.TxID]LockMode),
		log:   logrus.WithField("component", "lock_manager"),
	}
}

// Acquire is non-blocking: it returns immediately with whether tid now
// holds mode on pid. Callers wanting to wait poll this in a retry loop
// with their own deadline (see bufferpool.GetPage).
func (lm *LockManager) Acquire(tid types.TxID, pid types.PageID, mode LockMode) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	holders := lm.locks[pid]
	if holders == nil {
		lm.locks[pid] = map[types.TxID]LockMode{tid: mode}
		lm.log.WithFields(logrus.Fields{"tid": tid, "pid": pid, "mode": mode}).Trace("lock granted, no prior holders")
		return true
	}

	if existing, ok := holders[tid]; ok {
		if existing == mode {
			return true
		}
		if existing == Shared && mode == Exclusive {
			// Upgrade: only legal when tid is the sole holder.
			if len(holders) == 1 {
				holders[tid] = Exclusive
				lm.log.WithFields(logrus.Fields{"tid": tid, "pid": pid}).Trace("lock upgraded to exclusive")
				return true
			}
			return false
		}
		// Downgrade exclusive -> shared is always legal.
		holders[tid] = Shared
		return true
	}

	// tid is not yet a holder.
	if mode == Shared {
		for _, m := range holders {
			if m == Exclusive {
				return false
			}
		}
		holders[tid] = Shared
		lm.log.WithFields(logrus.Fields{"tid": tid, "pid": pid}).Trace("shared lock granted alongside existing holders")
		return true
	}
	// Requesting exclusive while other holders exist: blocked.
	return false
}

// Release drops tid's lock on pid, if any.
func (lm *LockManager) Release(tid types.TxID, pid types.PageID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.releaseLocked(tid, pid)
}

func (lm *LockManager) releaseLocked(tid types.TxID, pid types.PageID) {
	holders, ok := lm.locks[pid]
	if !ok {
		return
	}
	delete(holders, tid)
	if len(holders) == 0 {
		delete(lm.locks, pid)
	}
}

// ReleaseAll drops every lock tid holds, across all pages.
func (lm *LockManager) ReleaseAll(tid types.TxID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for pid := range lm.locks {
		lm.releaseLocked(tid, pid)
	}
}

// HoldsLock reports whether tid holds any lock on pid.
func (lm *LockManager) HoldsLock(tid types.TxID, pid types.PageID) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	holders, ok := lm.locks[pid]
	if !ok {
		return false
	}
	_, held := holders[tid]
	return held
}
