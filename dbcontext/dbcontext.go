// Package dbcontext composes the storage/txn/catalog/optimizer layers
// into one value, replacing the global mutable Catalog/TableStats
// registry with an explicit struct threaded through every operator
// constructor.
package dbcontext

import (
	"github.com/shubhamnegi/simpledb/catalog"
	"github.com/shubhamnegi/simpledb/config"
	"github.com/shubhamnegi/simpledb/optimizer"
	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/txn"
	"github.com/shubhamnegi/simpledb/txnlog"
	"github.com/shubhamnegi/simpledb/types"
)

// DB owns every shared subsystem a running engine needs: the table
// catalog, the page buffer pool, the lock manager, the statistics
// cache, and the write log. Tests build a fresh DB per test to avoid
// any cross-test state leakage a package-level singleton would invite.
type DB struct {
	Catalog    *catalog.Catalog
	BufferPool *storage.BufferPool
	Locks      *txn.LockManager
	Stats      *optimizer.StatsCache
	Log        txnlog.LogFile
	Config     *config.Config
}

// New wires a DB from cfg: a LockManager, a LogFile opened under
// cfg.DBRoot, a BufferPool sized to cfg.BufferPoolPages backed by the
// catalog as its FileResolver, and a StatsCache tuned by
// cfg.IOCostPerPage.
func New(cfg *config.Config) (*DB, error) {
	storage.PageSize = cfg.PageSize

	cat := catalog.NewCatalog()

	log, err := txnlog.Open(cfg.DBRoot + "/simpledb.log")
	if err != nil {
		return nil, err
	}

	locks := txn.NewLockManager()
	pool := storage.NewBufferPool(cfg.BufferPoolPages, cat, locks, log)
	pool.SetLockWaitTimeout(cfg.LockWaitTimeout())

	stats, err := optimizer.NewStatsCache(cfg.IOCostPerPage)
	if err != nil {
		log.Close()
		return nil, err
	}

	return &DB{
		Catalog:    cat,
		BufferPool: pool,
		Locks:      locks,
		Stats:      stats,
		Log:        log,
		Config:     cfg,
	}, nil
}

// NewTxID starts a new transaction identifier. The caller is
// responsible for ending it via BufferPool.TransactionComplete.
func (db *DB) NewTxID() types.TxID {
	return types.NewTxID()
}

// TableStats returns the cached (or freshly scanned) statistics for
// tableID.
func (db *DB) TableStats(tableID uint64) (*optimizer.TableStats, error) {
	return db.Stats.Get(tableID, db.Catalog, db.BufferPool)
}

// Close releases the log file and statistics cache. It does not flush
// the buffer pool — callers that need a clean shutdown should call
// BufferPool.FlushAllPages first.
func (db *DB) Close() error {
	db.Stats.Close()
	return db.Log.Close()
}
