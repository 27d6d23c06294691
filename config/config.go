// Package config loads engine tuning parameters from an HCL file,
// decoding into a plain map and dispatching field-by-field the same way
// a hand-rolled config loader would — no reflection-driven struct tags.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl"
)

// Config holds every tunable the storage/txn/optimizer layers read at
// startup. Fields not present in the loaded file keep their Default*
// value.
type Config struct {
	PageSize          int
	BufferPoolPages   int
	LockWaitTimeoutMs int
	IOCostPerPage     int
	DBRoot            string
}

const (
	DefaultPageSize          = 4096
	DefaultBufferPoolPages   = 50
	DefaultLockWaitTimeoutMs = 500
	DefaultIOCostPerPage     = 1000
	DefaultDBRoot            = "."
)

// Default returns a Config populated with the engine's built-in
// defaults, suitable to pass to Load when no file should be read.
func Default() *Config {
	return &Config{
		PageSize:          DefaultPageSize,
		BufferPoolPages:   DefaultBufferPoolPages,
		LockWaitTimeoutMs: DefaultLockWaitTimeoutMs,
		IOCostPerPage:     DefaultIOCostPerPage,
		DBRoot:            DefaultDBRoot,
	}
}

// LockWaitTimeout converts LockWaitTimeoutMs to a time.Duration for
// direct use by storage.BufferPool.
func (c *Config) LockWaitTimeout() time.Duration {
	return time.Duration(c.LockWaitTimeoutMs) * time.Millisecond
}

// Load decodes the HCL file at path into c, overriding only the fields
// present in the file. Unknown top-level keys are rejected so typos
// don't silently no-op.
func Load(path string, c *Config) error {
	b, err := readFile(path)
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := hcl.Decode(&raw, string(b)); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	for name, val := range raw {
		if err := c.setField(name, val); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) setField(name string, val interface{}) error {
	switch name {
	case "page_size":
		return setInt(&c.PageSize, val)
	case "buffer_pool_pages":
		return setInt(&c.BufferPoolPages, val)
	case "lock_wait_timeout_ms":
		return setInt(&c.LockWaitTimeoutMs, val)
	case "io_cost_per_page":
		return setInt(&c.IOCostPerPage, val)
	case "db_root":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %v", val)
		}
		c.DBRoot = s
		return nil
	default:
		return fmt.Errorf("%s is not a config variable", name)
	}
}

func setInt(dst *int, val interface{}) error {
	switch v := val.(type) {
	case int:
		*dst = v
	default:
		return fmt.Errorf("expected an integer, got %v", val)
	}
	return nil
}
