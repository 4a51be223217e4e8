package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindBool
	KindInt
	KindTime
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a single attribute value: a scalar or an ordered list of scalars.
// The zero Value is absent.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	t    time.Time
	list []Value
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Time returns a timestamp value. The timestamp is stored in UTC without a
// monotonic clock reading so that it survives a snapshot round trip.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.UTC()} }

// List returns a multi-valued attribute. Nested lists are flattened and
// absent values are dropped.
func List(vals ...Value) Value {
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		switch v.kind {
		case KindAbsent:
		case KindList:
			out = append(out, v.list...)
		default:
			out = append(out, v)
		}
	}
	return Value{kind: KindList, list: out}
}

// Strings returns a multi-valued attribute of strings.
func Strings(ss ...string) Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return Value{kind: KindList, list: out}
}

func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the zero Value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Len is the number of elements List would return.
func (v Value) Len() int {
	switch v.kind {
	case KindAbsent:
		return 0
	case KindList:
		return len(v.list)
	default:
		return 1
	}
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// List returns the values of a multi-valued attribute. A scalar is returned
// as a one element list and an absent value as an empty, non-nil list.
func (v Value) List() []Value {
	switch v.kind {
	case KindAbsent:
		return []Value{}
	case KindList:
		out := make([]Value, len(v.list))
		copy(out, v.list)
		return out
	default:
		return []Value{v}
	}
}

// Strings renders every element of List as a string.
func (v Value) Strings() []string {
	vals := v.List()
	out := make([]string, len(vals))
	for i, e := range vals {
		out[i] = e.String()
	}
	return out
}

// Truthy coerces the value to a boolean. Absent values, false, the empty
// string, "0", zero, the zero time and empty lists are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.s != "" && v.s != "0"
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindTime:
		return !v.t.IsZero()
	case KindList:
		return len(v.list) > 0
	default:
		return false
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindTime:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindList:
		return "[" + strings.Join(v.Strings(), ", ") + "]"
	default:
		return ""
	}
}

// GoString makes values readable in test failure output.
func (v Value) GoString() string {
	return fmt.Sprintf("entry.Value{%s: %q}", v.kind, v.String())
}
