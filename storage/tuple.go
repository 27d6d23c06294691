package storage

import (
	"fmt"
	"strings"

	"github.com/shubhamnegi/simpledb/types"
)

// Tuple owns a TupleDesc and a sequence of Fields of length
// td.NumFields(). An optional RecordID binds the tuple to its on-disk
// slot once it has been read from or written to a HeapPage.
type Tuple struct {
	td     *TupleDesc
	fields []types.Field
	rid    *types.RecordID
}

// NewTuple allocates an empty tuple of the given schema. Every field slot
// starts nil until set with SetField.
func NewTuple(td *TupleDesc) *Tuple {
	return &Tuple{td: td, fields: make([]types.Field, td.NumFields())}
}

func (t *Tuple) TupleDesc() *TupleDesc { return t.td }

// RecordID returns the tuple's on-disk slot, or nil if it isn't bound to
// one (e.g. a freshly-constructed tuple not yet inserted).
func (t *Tuple) RecordID() *types.RecordID { return t.rid }

func (t *Tuple) SetRecordID(rid types.RecordID) { t.rid = &rid }

// Field returns the i-th field's value.
func (t *Tuple) Field(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, fmt.Errorf("%w: field index %d out of range", types.ErrNoSuchElement, i)
	}
	return t.fields[i], nil
}

// SetField overwrites the i-th field's value.
func (t *Tuple) SetField(i int, f types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return fmt.Errorf("%w: field index %d out of range", types.ErrNoSuchElement, i)
	}
	t.fields[i] = f
	return nil
}

// Clone returns a deep-enough copy: a fresh field slice and a fresh
// RecordID pointer, so mutating the copy never affects t. Fields
// themselves are immutable value types, so they're shared directly.
func (t *Tuple) Clone() *Tuple {
	out := &Tuple{td: t.td, fields: make([]types.Field, len(t.fields))}
	copy(out.fields, t.fields)
	if t.rid != nil {
		rid := *t.rid
		out.rid = &rid
	}
	return out
}

// Equals reports whether t and other carry the same schema and the same
// value in every field. Used by HeapPage.DeleteTuple to confirm a delete
// request's tuple handle still matches what's actually stored in its
// claimed slot, not merely that the slot is occupied.
func (t *Tuple) Equals(other *Tuple) bool {
	if other == nil || !t.td.Equals(other.td) || len(t.fields) != len(other.fields) {
		return false
	}
	for i, f := range t.fields {
		of := other.fields[i]
		if f == nil || of == nil {
			if f != nil || of != nil {
				return false
			}
			continue
		}
		eq, err := f.Compare(types.Equals, of)
		if err != nil || !eq {
			return false
		}
	}
	return true
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		if f == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = f.String()
	}
	return strings.Join(parts, "\t")
}
