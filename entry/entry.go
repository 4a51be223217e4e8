// Package entry models a single directory object as a bag of typed,
// case-insensitively named attributes plus a set of authorization roles
// layered on top of it.
//
// An Entry is owned by one request or session at a time and is not safe for
// concurrent mutation.
package entry

import (
	"sort"
	"strings"
)

// Object types commonly found on entries.
const (
	TypeUser               = "user"
	TypeGroup              = "group"
	TypeComputer           = "computer"
	TypeOrganizationalUnit = "organizationalUnit"
	TypeUnknown            = "unknown"
)

type attribute struct {
	name  string // name as last set, for display and snapshots
	value Value
}

// Entry is one directory object.
type Entry struct {
	objectType string
	attrs      map[string]attribute // keyed by folded name
	roles      []string
}

// New returns an empty entry of the given object type.
func New(objectType string) *Entry {
	return &Entry{
		objectType: objectType,
		attrs:      make(map[string]attribute),
	}
}

// FromMap returns an entry populated from a raw attribute map. When two keys
// differ only in case the one that sorts last wins.
func FromMap(objectType string, attrs map[string]Value) *Entry {
	e := New(objectType)
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.Set(name, attrs[name])
	}
	return e
}

func fold(name string) string {
	return strings.ToLower(name)
}

// Type returns the object type, e.g. "user".
func (e *Entry) Type() string { return e.objectType }

// SetType changes the object type.
func (e *Entry) SetType(objectType string) *Entry {
	e.objectType = objectType
	return e
}

// Has reports whether name holds a value, including a false or empty one.
func (e *Entry) Has(name string) bool {
	_, ok := e.attrs[fold(name)]
	return ok
}

// Get returns the value stored under name, or an absent Value.
func (e *Entry) Get(name string) Value {
	return e.attrs[fold(name)].value
}

// Lookup returns the value stored under name and whether it was present.
func (e *Entry) Lookup(name string) (Value, bool) {
	a, ok := e.attrs[fold(name)]
	return a.value, ok
}

// Set stores v under name, replacing any value stored under a name that
// differs only in case. Setting an absent Value removes the attribute.
func (e *Entry) Set(name string, v Value) *Entry {
	if e.attrs == nil {
		e.attrs = make(map[string]attribute)
	}
	if v.IsAbsent() {
		delete(e.attrs, fold(name))
		return e
	}
	e.attrs[fold(name)] = attribute{name: name, value: v}
	return e
}

// Delete removes name. It is a no-op when name is not present.
func (e *Entry) Delete(name string) *Entry {
	delete(e.attrs, fold(name))
	return e
}

// Names returns the stored attribute names sorted case-insensitively.
func (e *Entry) Names() []string {
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = e.attrs[k].name
	}
	return names
}

// Len is the number of stored attributes.
func (e *Entry) Len() int { return len(e.attrs) }

// Equal reports whether both entries hold the same type, attributes and
// roles. Attribute names are compared as stored.
func (e *Entry) Equal(o *Entry) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.objectType != o.objectType || len(e.attrs) != len(o.attrs) || len(e.roles) != len(o.roles) {
		return false
	}
	for k, a := range e.attrs {
		b, ok := o.attrs[k]
		if !ok || a.name != b.name || !a.value.Equal(b.value) {
			return false
		}
	}
	for i := range e.roles {
		if e.roles[i] != o.roles[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	c := New(e.objectType)
	for k, a := range e.attrs {
		c.attrs[k] = attribute{name: a.name, value: cloneValue(a.value)}
	}
	c.roles = append([]string(nil), e.roles...)
	return c
}

func cloneValue(v Value) Value {
	if v.kind == KindList {
		v.list = append([]Value(nil), v.list...)
	}
	return v
}
