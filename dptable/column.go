// Package dptable implements the user-visible, row-indexed, column-named
// view over an assembled sampled aggregate.
package dptable

import "fmt"

// Kind identifies the primitive type carried by a Column.
type Kind int

// The set of primitive column kinds a source may declare.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindStructArray
	KindByteArray
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindStructArray:
		return "structArray"
	case KindByteArray:
		return "byteArray"
	default:
		return "invalid"
	}
}

// Absent is a typed sentinel marking a cell for which a source had no sample
// at a given instant. Absent values compare equal to every other Absent value
// of the same Kind, and never equal to any concrete sample value.
type Absent struct {
	Kind Kind
}

// String implements fmt.Stringer.
func (a Absent) String() string {
	return fmt.Sprintf("<absent:%s>", a.Kind)
}

// Column is a named, typed vector of per-row values. A cell holding an Absent
// value of the Column's Kind indicates no sample was recorded for that row.
type Column struct {
	Name   string
	Kind   Kind
	Values []interface{}
}

// AbsentValue returns the Absent sentinel for this Column's Kind.
func (c Column) AbsentValue() interface{} {
	return Absent{Kind: c.Kind}
}

// IsAbsent reports whether the value at row i is the Absent sentinel.
func (c Column) IsAbsent(i int) bool {
	_, ok := c.Values[i].(Absent)
	return ok
}

// Len returns the number of rows in the Column.
func (c Column) Len() int {
	return len(c.Values)
}
