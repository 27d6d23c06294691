// Package types defines the closed set of field types the engine knows
// about and the relational comparison operators predicates use.
package types

import "fmt"

// Type is the closed set of field types supported by the engine.
type Type int

const (
	IntType Type = iota
	StringType
)

// StringLength is the fixed maximum length, in bytes, of a STRING field.
// Strings shorter than this are zero-padded on disk; the engine has no
// notion of variable-length records (see spec Non-goals).
const StringLength = 128

// IntLen is the on-disk width of an INT field.
const IntLen = 4

// Len returns the fixed on-disk width of a value of this type.
func (t Type) Len() int {
	switch t {
	case IntType:
		return IntLen
	case StringType:
		return 4 + StringLength // 4-byte length prefix + padded bytes
	default:
		panic(fmt.Sprintf("types: unknown type %d", t))
	}
}

func (t Type) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType maps the catalog load-file spelling ("int"/"string") to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "int":
		return IntType, nil
	case "string":
		return StringType, nil
	default:
		return 0, fmt.Errorf("types: unknown type name %q", s)
	}
}

// Op is a relational comparison operator usable in a Predicate.
type Op int

const (
	Equals Op = iota
	NotEquals
	LessThan
	LessThanOrEq
	GreaterThan
	GreaterThanOrEq
	Like
)

func (op Op) String() string {
	switch op {
	case Equals:
		return "="
	case NotEquals:
		return "<>"
	case LessThan:
		return "<"
	case LessThanOrEq:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEq:
		return ">="
	case Like:
		return "LIKE"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}
