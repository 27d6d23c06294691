package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Field is a typed value. The closed implementation set is IntField and
// StringField — see spec §9 Design Notes ("Field = Int(i32) | Str(String)").
type Field interface {
	Type() Type
	// Compare evaluates `field op other`. other must have the same Type,
	// except that LIKE is defined for both INT (equality) and STRING
	// (substring match).
	Compare(op Op, other Field) (bool, error)
	// Encode appends the on-disk (big-endian) representation of this field.
	Encode(buf *bytes.Buffer) error
	String() string
}

// IntField is a 4-byte signed integer field.
type IntField struct {
	Value int32
}

func NewIntField(v int32) IntField { return IntField{Value: v} }

func (f IntField) Type() Type { return IntType }

func (f IntField) Compare(op Op, other Field) (bool, error) {
	o, ok := other.(IntField)
	if !ok {
		return false, fmt.Errorf("types: cannot compare IntField to %T", other)
	}
	switch op {
	case Equals, Like:
		return f.Value == o.Value, nil
	case NotEquals:
		return f.Value != o.Value, nil
	case LessThan:
		return f.Value < o.Value, nil
	case LessThanOrEq:
		return f.Value <= o.Value, nil
	case GreaterThan:
		return f.Value > o.Value, nil
	case GreaterThanOrEq:
		return f.Value >= o.Value, nil
	default:
		return false, fmt.Errorf("types: unsupported op %v on IntField", op)
	}
}

func (f IntField) Encode(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.BigEndian, f.Value)
}

func (f IntField) String() string { return fmt.Sprintf("%d", f.Value) }

// DecodeIntField reads a 4-byte big-endian int from r.
func DecodeIntField(r *bytes.Reader) (IntField, error) {
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return IntField{}, fmt.Errorf("types: decode int field: %w", err)
	}
	return IntField{Value: v}, nil
}

// StringField is a string field, serialized as a 4-byte length prefix
// followed by StringLength zero-padded bytes.
type StringField struct {
	Value string
}

func NewStringField(v string) StringField {
	if len(v) > StringLength {
		v = v[:StringLength]
	}
	return StringField{Value: v}
}

func (f StringField) Type() Type { return StringType }

func (f StringField) Compare(op Op, other Field) (bool, error) {
	o, ok := other.(StringField)
	if !ok {
		return false, fmt.Errorf("types: cannot compare StringField to %T", other)
	}
	switch op {
	case Equals:
		return f.Value == o.Value, nil
	case NotEquals:
		return f.Value != o.Value, nil
	case LessThan:
		return f.Value < o.Value, nil
	case LessThanOrEq:
		return f.Value <= o.Value, nil
	case GreaterThan:
		return f.Value > o.Value, nil
	case GreaterThanOrEq:
		return f.Value >= o.Value, nil
	case Like:
		return strings.Contains(f.Value, o.Value), nil
	default:
		return false, fmt.Errorf("types: unsupported op %v on StringField", op)
	}
}

func (f StringField) Encode(buf *bytes.Buffer) error {
	b := make([]byte, StringLength)
	copy(b, f.Value)
	if err := binary.Write(buf, binary.BigEndian, int32(len(f.Value))); err != nil {
		return err
	}
	_, err := buf.Write(b)
	return err
}

func (f StringField) String() string { return f.Value }

// DecodeStringField reads a 4-byte length prefix plus StringLength padded
// bytes from r.
func DecodeStringField(r *bytes.Reader) (StringField, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return StringField{}, fmt.Errorf("types: decode string length: %w", err)
	}
	b := make([]byte, StringLength)
	if _, err := r.Read(b); err != nil {
		return StringField{}, fmt.Errorf("types: decode string bytes: %w", err)
	}
	if n < 0 || int(n) > StringLength {
		return StringField{}, fmt.Errorf("types: invalid string length %d", n)
	}
	return StringField{Value: string(b[:n])}, nil
}
