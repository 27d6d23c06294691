package execution

import (
	"path/filepath"
	"testing"

	"github.com/shubhamnegi/simpledb/catalog"
	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/txn"
	"github.com/shubhamnegi/simpledb/txnlog"
	"github.com/shubhamnegi/simpledb/types"
	"github.com/stretchr/testify/require"
)

// testDB wires a fresh catalog/buffer pool pair for one test, mirroring
// the explicit database-context redesign: no package-level singletons.
type testDB struct {
	cat  *catalog.Catalog
	pool *storage.BufferPool
}

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	cat := catalog.NewCatalog()
	pool := storage.NewBufferPool(50, cat, txn.NewLockManager(), txnlog.NopLogFile{})
	return &testDB{cat: cat, pool: pool}
}

func (db *testDB) addTable(t *testing.T, name string, td *storage.TupleDesc) uint64 {
	t.Helper()
	dir := t.TempDir()
	hf, err := storage.NewHeapFile(filepath.Join(dir, name+".dat"), td)
	require.NoError(t, err)
	db.cat.AddTable(hf, name, "")
	return hf.TableID()
}

func (db *testDB) insertRows(t *testing.T, tableID uint64, rows [][]types.Field) {
	t.Helper()
	tid := types.NewTxID()
	for _, row := range rows {
		td, err := db.cat.TupleDesc(tableID)
		require.NoError(t, err)
		tup := storage.NewTuple(td)
		for i, f := range row {
			require.NoError(t, tup.SetField(i, f))
		}
		require.NoError(t, db.pool.InsertTuple(tid, tableID, tup))
	}
	require.NoError(t, db.pool.TransactionComplete(tid, true))
}

func drain(t *testing.T, op Operator) []*storage.Tuple {
	t.Helper()
	require.NoError(t, op.Open())
	defer op.Close()
	var out []*storage.Tuple
	for {
		ok, err := op.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		tup, err := op.Next()
		require.NoError(t, err)
		out = append(out, tup)
	}
	return out
}

func peopleDesc() *storage.TupleDesc {
	return storage.NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
}
