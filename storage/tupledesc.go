package storage

import (
	"fmt"
	"strings"

	"github.com/shubhamnegi/simpledb/types"
)

// FieldItem is one (Type, optional name) entry of a TupleDesc.
type FieldItem struct {
	Type types.Type
	Name string
}

// TupleDesc is an ordered schema: a sequence of (Type, optional name).
// Equality between two descriptors considers only arity and field types,
// in order — names are metadata, not identity (spec §3).
type TupleDesc struct {
	items []FieldItem
}

// NewTupleDesc builds a descriptor from parallel type/name slices. Names
// may be empty. Panics if empty or mismatched lengths, mirroring the
// original's "must contain at least one entry" constructor invariant.
func NewTupleDesc(fieldTypes []types.Type, fieldNames []string) *TupleDesc {
	if len(fieldTypes) == 0 {
		panic("storage: TupleDesc must have at least one field")
	}
	if fieldNames != nil && len(fieldNames) != len(fieldTypes) {
		panic("storage: TupleDesc type/name length mismatch")
	}
	items := make([]FieldItem, len(fieldTypes))
	for i, t := range fieldTypes {
		name := ""
		if fieldNames != nil {
			name = fieldNames[i]
		}
		items[i] = FieldItem{Type: t, Name: name}
	}
	return &TupleDesc{items: items}
}

// NumFields returns the number of fields in the schema.
func (td *TupleDesc) NumFields() int { return len(td.items) }

// FieldType returns the type of the i-th field.
func (td *TupleDesc) FieldType(i int) (types.Type, error) {
	if i < 0 || i >= len(td.items) {
		return 0, fmt.Errorf("%w: field index %d out of range", types.ErrNoSuchElement, i)
	}
	return td.items[i].Type, nil
}

// FieldName returns the (possibly empty) name of the i-th field.
func (td *TupleDesc) FieldName(i int) (string, error) {
	if i < 0 || i >= len(td.items) {
		return "", fmt.Errorf("%w: field index %d out of range", types.ErrNoSuchElement, i)
	}
	return td.items[i].Name, nil
}

// FieldIndex finds the index of the first field with the given name. A
// qualified name ("alias.field") matches a field stored under that exact
// name or under its unqualified part; an unqualified name also matches a
// field stored qualified (as WithAlias produces), so "name" finds "s.name".
func (td *TupleDesc) FieldIndex(name string) (int, error) {
	alt := name
	qualified := false
	if i := strings.LastIndex(name, "."); i >= 0 {
		alt = name[i+1:]
		qualified = true
	}
	for i, item := range td.items {
		if item.Name == name || item.Name == alt {
			return i, nil
		}
		if j := strings.LastIndex(item.Name, "."); !qualified && j >= 0 && item.Name[j+1:] == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no field named %q", types.ErrNoSuchElement, name)
}

// Size returns the total width, in bytes, of a tuple of this schema.
func (td *TupleDesc) Size() int {
	size := 0
	for _, item := range td.items {
		size += item.Type.Len()
	}
	return size
}

// Merge concatenates two descriptors, td1's fields first.
func Merge(td1, td2 *TupleDesc) *TupleDesc {
	items := make([]FieldItem, 0, len(td1.items)+len(td2.items))
	items = append(items, td1.items...)
	items = append(items, td2.items...)
	return &TupleDesc{items: items}
}

// Equals reports whether two descriptors have the same arity and the same
// field type in every position. Names are ignored.
func (td *TupleDesc) Equals(other *TupleDesc) bool {
	if other == nil || len(td.items) != len(other.items) {
		return false
	}
	for i := range td.items {
		if td.items[i].Type != other.items[i].Type {
			return false
		}
	}
	return true
}

func (td *TupleDesc) String() string {
	parts := make([]string, len(td.items))
	for i, item := range td.items {
		parts[i] = fmt.Sprintf("%s(%s)", item.Type, item.Name)
	}
	return strings.Join(parts, ",")
}

// WithAlias returns a copy of td with every field name prefixed by
// "alias.", used by SeqScan to qualify its output schema.
func (td *TupleDesc) WithAlias(alias string) *TupleDesc {
	items := make([]FieldItem, len(td.items))
	for i, item := range td.items {
		name := item.Name
		if alias != "" {
			name = alias + "." + name
		}
		items[i] = FieldItem{Type: item.Type, Name: name}
	}
	return &TupleDesc{items: items}
}
