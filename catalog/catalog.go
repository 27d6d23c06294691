// Package catalog is the registry of tables described in spec §4.F: a
// mapping table_id -> (DbFile, name, primary-key field) plus the reverse
// name -> id lookup. It's mutable and its lifecycle is tied to the
// database process — nothing here is persisted to disk, matching the
// spec's "Catalog persistence format" being out of scope (§1).
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

type tableEntry struct {
	file    *storage.HeapFile
	name    string
	pkField string
}

// Catalog implements storage.FileResolver so it can be handed directly to
// a BufferPool.
type Catalog struct {
	mu     sync.RWMutex
	byID   map[uint64]*tableEntry
	byName map[string]uint64
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[uint64]*tableEntry),
		byName: make(map[string]uint64),
	}
}

// AddTable registers file under name, with pkField (possibly empty)
// marking its primary key.
func (c *Catalog) AddTable(file *storage.HeapFile, name, pkField string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := file.TableID()
	c.byID[id] = &tableEntry{file: file, name: name, pkField: pkField}
	c.byName[name] = id
}

// ResolveFile implements storage.FileResolver.
func (c *Catalog) ResolveFile(tableID uint64) (*storage.HeapFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: no table with id %d", types.ErrNoSuchElement, tableID)
	}
	return e.file, nil
}

// TableID looks up a table's id by name.
func (c *Catalog) TableID(name string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: no table named %q", types.ErrNoSuchElement, name)
	}
	return id, nil
}

func (c *Catalog) TableName(tableID uint64) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return "", fmt.Errorf("%w: no table with id %d", types.ErrNoSuchElement, tableID)
	}
	return e.name, nil
}

// PrimaryKey returns the primary-key field name for tableID, which may be
// empty if the table load line named none.
func (c *Catalog) PrimaryKey(tableID uint64) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[tableID]
	if !ok {
		return "", fmt.Errorf("%w: no table with id %d", types.ErrNoSuchElement, tableID)
	}
	return e.pkField, nil
}

func (c *Catalog) TupleDesc(tableID uint64) (*storage.TupleDesc, error) {
	f, err := c.ResolveFile(tableID)
	if err != nil {
		return nil, err
	}
	return f.TupleDesc(), nil
}

// TableIDs returns every registered table's id, in no particular order.
func (c *Catalog) TableIDs() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uint64, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}

// LoadSchemaFile parses a catalog load file — spec §6: one line per
// table, `tableName (fieldName type [pk], …)`, blank lines and
// `#`-prefixed comments ignored — and registers a HeapFile under dir for
// each table it names.
func (c *Catalog) LoadSchemaFile(path, dir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening catalog file %s: %v", types.ErrIO, path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.loadLine(line, dir); err != nil {
			return fmt.Errorf("catalog: parsing %q: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: scanning %s: %v", types.ErrIO, path, err)
	}
	return nil
}

func (c *Catalog) loadLine(line, dir string) error {
	open := strings.Index(line, "(")
	closeIdx := strings.LastIndex(line, ")")
	if open < 0 || closeIdx < open {
		return fmt.Errorf("missing field list")
	}
	tableName := strings.TrimSpace(line[:open])
	if tableName == "" {
		return fmt.Errorf("missing table name")
	}

	var fieldTypes []types.Type
	var fieldNames []string
	pkField := ""
	for _, raw := range strings.Split(line[open+1:closeIdx], ",") {
		parts := strings.Fields(strings.TrimSpace(raw))
		if len(parts) < 2 {
			return fmt.Errorf("malformed field %q", raw)
		}
		name, typeName := parts[0], parts[1]
		ft, err := types.ParseType(typeName)
		if err != nil {
			return err
		}
		fieldNames = append(fieldNames, name)
		fieldTypes = append(fieldTypes, ft)
		if len(parts) > 2 && parts[2] == "pk" {
			pkField = name
		}
	}

	td := storage.NewTupleDesc(fieldTypes, fieldNames)
	hf, err := storage.NewHeapFile(filepath.Join(dir, tableName+".dat"), td)
	if err != nil {
		return err
	}
	c.AddTable(hf, tableName, pkField)
	return nil
}
