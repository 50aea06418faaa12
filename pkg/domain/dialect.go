package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect is the variant tag selecting an instrument family's command dialect.
type Dialect string

const (
	// DialectKeysight is the modern Keysight InfiniiVision dialect (e.g. 3000T/6000-X).
	DialectKeysight Dialect = "keysight"
	// DialectKeysightLegacy is the Keysight 1000-X dialect driven one connection per command.
	DialectKeysightLegacy Dialect = "keysight-legacy"
	// DialectRigol is the Rigol DS/MSO dialect.
	DialectRigol Dialect = "rigol"
)

// Dialects lists every supported dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{DialectKeysight, DialectKeysightLegacy, DialectRigol}
}

// ParseDialect resolves a configured dialect name.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dialects() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// Support describes how a dialect realizes an operation.
type Support string

const (
	// Direct operations map onto a fixed command sequence.
	Direct Support = "direct"
	// Computed operations read back live instrument state before writing.
	Computed Support = "computed"
	// Unsupported operations fail with UnsupportedOperationError.
	Unsupported Support = "unsupported"
)

// Capabilities is one dialect's column of the capability matrix.
// Operations missing from the map are Unsupported.
type Capabilities map[Operation]Support

// Of returns the support level for op.
func (c Capabilities) Of(op Operation) Support {
	if s, ok := c[op]; ok {
		return s
	}
	return Unsupported
}

// Operations returns the operations in the capability set, sorted by name.
func (c Capabilities) Operations() []Operation {
	ops := make([]Operation, 0, len(c))
	for op := range c {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
