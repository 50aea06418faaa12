// Package scpi holds the command plumbing shared by every dialect driver:
// ordered writes, numeric read-backs and the stepped-scale round trips.
package scpi

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
)

// ResponseError is returned when an instrument answers a query with something unusable.
type ResponseError struct {
	Query    string
	Response string
	Reason   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("instrument response to %s: %s (got %q)", e.Query, e.Reason, e.Response)
}

// Send writes lines in order, stopping at the first failure.
// Lines already written stay applied.
func Send(ctx context.Context, ch ports.DeviceChannel, lines ...string) error {
	for _, line := range lines {
		if err := ch.Write(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// ReadFloat issues a query and parses its single decimal response line.
func ReadFloat(ctx context.Context, ch ports.DeviceChannel, query string) (float64, error) {
	resp, err := ch.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, &ResponseError{Query: query, Response: resp, Reason: "not a decimal number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ResponseError{Query: query, Response: resp, Reason: "not a finite number"}
	}
	return v, nil
}

// Query returns the query form of a command header, e.g. ":TIMEBASE:SCALE?".
func Query(header string) string {
	return header + "?"
}

// Set formats a command header with its arguments, e.g. ":TRIGGER:LEVEL 0.5,CHANNEL1".
func Set(header string, args ...string) string {
	if len(args) == 0 {
		return header
	}
	return header + " " + strings.Join(args, ",")
}

// Apply writes lines in order and reports domain.Applied on success.
func Apply(ctx context.Context, ch ports.DeviceChannel, lines ...string) (domain.Outcome, error) {
	if err := Send(ctx, ch, lines...); err != nil {
		return domain.Ignored, err
	}
	return domain.Applied, nil
}

// Unsupported reports an operation the dialect does not offer.
func Unsupported(op domain.Operation, dialect domain.Dialect, reason string) (domain.Outcome, error) {
	return domain.Ignored, &domain.UnsupportedOperationError{Operation: op, Dialect: dialect, Reason: reason}
}
