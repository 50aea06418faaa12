// Package vocab translates spoken domain values into instrument tokens.
//
// A Table is constant for the lifetime of the process and total-or-error:
// every key it declares maps to a value, and any other key fails with an
// *UnknownValueError listing the allowed keys. There is no fallback value.
package vocab

import (
	"fmt"
	"sort"
	"strings"
)

// Table maps normalized spoken keys to dialect values.
type Table[V any] struct {
	name    string
	entries map[string]V
}

// NewTable builds a named table. Keys are normalized on construction.
// It panics on duplicate keys after normalization, which is a programming error.
func NewTable[V any](name string, entries map[string]V) Table[V] {
	t := Table[V]{name: name, entries: make(map[string]V, len(entries))}
	for k, v := range entries {
		key := Normalize(k)
		if _, dup := t.entries[key]; dup {
			panic(fmt.Sprintf("vocab: table %s: duplicate key %q", name, key))
		}
		t.entries[key] = v
	}
	return t
}

// Name returns the table's name, used in error messages.
func (t Table[V]) Name() string { return t.name }

// Len returns the number of keys.
func (t Table[V]) Len() int { return len(t.entries) }

// Lookup returns the value for a spoken key.
func (t Table[V]) Lookup(key string) (V, error) {
	if v, ok := t.entries[Normalize(key)]; ok {
		return v, nil
	}
	var zero V
	return zero, &UnknownValueError{Table: t.name, Value: key, Allowed: t.Keys()}
}

// Keys returns the declared keys in sorted order.
func (t Table[V]) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize lower-cases and trims a spoken value and collapses inner whitespace.
func Normalize(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), " ")
}

// UnknownValueError is returned when a slot value is absent from a table.
type UnknownValueError struct {
	Table   string
	Value   string
	Allowed []string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q (allowed: %s)", e.Table, e.Value, strings.Join(e.Allowed, ", "))
}
