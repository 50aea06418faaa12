package ports

import "context"

// DeviceChannel is the line-oriented connection to a single instrument.
// Implementations are not safe for concurrent use; exactly one Driver owns a channel.
type DeviceChannel interface {
	// Write sends one command line. The channel appends the line terminator.
	// Instruments do not acknowledge writes.
	Write(ctx context.Context, line string) error

	// Query sends a command line ending in '?' and blocks until exactly one
	// response line has been read. The terminator is stripped from the response.
	Query(ctx context.Context, line string) (string, error)

	// Close releases the underlying connection.
	Close() error
}
