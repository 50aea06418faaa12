package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownDialect is returned when a configured dialect name is not recognized.
var ErrUnknownDialect = errors.New("unknown dialect")

// ErrQueueClosed is returned when an intent is submitted after the runner stopped.
var ErrQueueClosed = errors.New("intent queue closed")

// UnsupportedOperationError is returned when the bound dialect does not offer an operation,
// or does not offer it with the given slots. No command is written in that case.
type UnsupportedOperationError struct {
	Operation Operation
	Dialect   Dialect
	Reason    string // Optional detail, e.g. "source slot not accepted"
}

func (e *UnsupportedOperationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("operation %s is not supported by the %s dialect", e.Operation, e.Dialect)
	}
	return fmt.Sprintf("operation %s is not supported by the %s dialect: %s", e.Operation, e.Dialect, e.Reason)
}
