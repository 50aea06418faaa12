// Package backend selects the driver for a dialect.
package backend

import (
	"fmt"

	"github.com/jmwilson/ollie/pkg/backend/keysight"
	"github.com/jmwilson/ollie/pkg/backend/keysightlegacy"
	"github.com/jmwilson/ollie/pkg/backend/rigol"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
)

// New binds the driver for dialect to ch.
func New(dialect domain.Dialect, ch ports.DeviceChannel) (ports.Driver, error) {
	switch dialect {
	case domain.DialectKeysight:
		return keysight.New(ch), nil
	case domain.DialectKeysightLegacy:
		return keysightlegacy.New(ch), nil
	case domain.DialectRigol:
		return rigol.New(ch), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDialect, dialect)
	}
}

// Capabilities returns one dialect's column of the capability matrix.
func Capabilities(dialect domain.Dialect) (domain.Capabilities, error) {
	switch dialect {
	case domain.DialectKeysight:
		return keysight.Capabilities, nil
	case domain.DialectKeysightLegacy:
		return keysightlegacy.Capabilities, nil
	case domain.DialectRigol:
		return rigol.Capabilities, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDialect, dialect)
	}
}

// Matrix returns the full capability matrix keyed by dialect.
func Matrix() map[domain.Dialect]domain.Capabilities {
	m := make(map[domain.Dialect]domain.Capabilities, len(domain.Dialects()))
	for _, d := range domain.Dialects() {
		caps, _ := Capabilities(d)
		m[d] = caps
	}
	return m
}
