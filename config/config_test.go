package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDefaultConstants(t *testing.T) {
	c := Default()
	require.Equal(t, DefaultPageSize, c.PageSize)
	require.Equal(t, DefaultBufferPoolPages, c.BufferPoolPages)
	require.Equal(t, DefaultLockWaitTimeoutMs, c.LockWaitTimeoutMs)
	require.Equal(t, DefaultIOCostPerPage, c.IOCostPerPage)
	require.Equal(t, DefaultDBRoot, c.DBRoot)
}

func TestLockWaitTimeoutConvertsMillis(t *testing.T) {
	c := Default()
	c.LockWaitTimeoutMs = 250
	require.Equal(t, 250*time.Millisecond, c.LockWaitTimeout())
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
buffer_pool_pages = 200
db_root = "/tmp/data"
`), 0o644))

	c := Default()
	require.NoError(t, Load(path, c))

	require.Equal(t, 200, c.BufferPoolPages)
	require.Equal(t, "/tmp/data", c.DBRoot)
	require.Equal(t, DefaultPageSize, c.PageSize)
	require.Equal(t, DefaultLockWaitTimeoutMs, c.LockWaitTimeoutMs)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`bogus_key = 1`), 0o644))

	c := Default()
	err := Load(path, c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus_key")
}

func TestLoadRejectsWrongTypeForIntField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`page_size = "not-a-number"`), 0o644))

	c := Default()
	err := Load(path, c)
	require.Error(t, err)
}

func TestLoadMissingFilePropagatesError(t *testing.T) {
	c := Default()
	err := Load(filepath.Join(t.TempDir(), "missing.hcl"), c)
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}
