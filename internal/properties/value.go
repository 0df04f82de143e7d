// Package properties implements the typed property bag carried by
// recognition results: a string-keyed store of string, int and bool
// values with type-scoped existence checks and defaulted lookups.
package properties

import "fmt"

// Kind identifies which type a property value carries.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Value is a tagged union over the types a property store may hold.
// A value carries exactly one kind; accessors for other kinds report a
// mismatch instead of converting.
type Value struct {
	kind Kind
	s    string
	i    int
	b    bool
}

// String creates a string-kinded value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Int creates an int-kinded value.
func Int(v int) Value { return Value{kind: KindInt, i: v} }

// Bool creates a bool-kinded value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload; ok is false on a kind mismatch.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns the int payload; ok is false on a kind mismatch.
func (v Value) AsInt() (int, bool) { return v.i, v.kind == KindInt }

// AsBool returns the bool payload; ok is false on a kind mismatch.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }
