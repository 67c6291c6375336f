package core

import (
	"sort"
	"strconv"
)

// Key identifies an entry of a Map. It is either a name or a list index;
// positional keys come from sequences such as bound query parameters.
type Key struct {
	Name    string
	Index   int
	Indexed bool
}

// NamedKey returns a string key
func NamedKey(name string) Key { return Key{Name: name} }

// IndexKey returns a positional key
func IndexKey(i int) Key { return Key{Index: i, Indexed: true} }

// String returns the key as it appears in placeholders and dumps
func (k Key) String() string {
	if k.Indexed {
		return strconv.Itoa(k.Index)
	}
	return k.Name
}

// Is reports whether k is the named key name
func (k Key) Is(name string) bool {
	return !k.Indexed && k.Name == name
}

// Field represents a key-value pair of a Map
type Field struct {
	Key   Key
	Value Value
}

// F builds a named field from an arbitrary Go value
func F(name string, v interface{}) Field {
	return Field{Key: NamedKey(name), Value: ValueOf(v)}
}

// Map is an ordered mapping. Insertion order is kept because the
// rendered output depends on it.
type Map []Field

// MapOf converts a Go map into a Map sorted by key
func MapOf(m map[string]interface{}) Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Map, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: NamedKey(k), Value: ValueOf(m[k])})
	}
	return out
}

// ListMap builds a positional Map from values
func ListMap(vs ...Value) Map {
	out := make(Map, len(vs))
	for i, v := range vs {
		out[i] = Field{Key: IndexKey(i), Value: v}
	}
	return out
}

// Get returns the value stored under the named key
func (m Map) Get(name string) (Value, bool) {
	for _, f := range m {
		if f.Key.Is(name) {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether every given name is present
func (m Map) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := m.Get(name); !ok {
			return false
		}
	}
	return true
}

// Without returns a copy of m minus the named keys
func (m Map) Without(names ...string) Map {
	out := make(Map, 0, len(m))
	for _, f := range m {
		drop := false
		for _, name := range names {
			if f.Key.Is(name) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, f)
		}
	}
	return out
}

// Filter returns a copy of m holding the fields keep accepts
func (m Map) Filter(keep func(Field) bool) Map {
	out := make(Map, 0, len(m))
	for _, f := range m {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Set returns a copy of m where name holds v. An existing entry keeps its
// position, a new one is appended.
func (m Map) Set(name string, v Value) Map {
	out := m.Clone()
	for i := range out {
		if out[i].Key.Is(name) {
			out[i].Value = v
			return out
		}
	}
	return append(out, Field{Key: NamedKey(name), Value: v})
}

// Clone returns a deep copy of m
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for i, f := range m {
		out[i] = Field{Key: f.Key, Value: f.Value.Clone()}
	}
	return out
}

// IsPositional reports whether no key of m is a name
func (m Map) IsPositional() bool {
	for _, f := range m {
		if !f.Key.Indexed {
			return false
		}
	}
	return true
}

// Equal reports whether both maps hold the same entries in the same order
func (m Map) Equal(o Map) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i].Key != o[i].Key || !m[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}
