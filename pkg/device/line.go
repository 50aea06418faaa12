// Package device provides the physical channels a driver talks to an instrument over.
//
// Instruments speak a line-oriented protocol: every command is one newline-terminated
// line, and a query is answered with exactly one response line. Line wraps any
// byte stream (USBTMC character device, TCP socket, serial port) in that framing.
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned when a channel is used after Close.
var ErrClosed = errors.New("device channel closed")

// Line is a persistent, line-framed channel over a byte stream.
// It is not safe for concurrent use.
type Line struct {
	name   string
	rw     io.ReadWriteCloser
	reader *bufio.Reader
	closed bool
}

// NewLine wraps rw. name identifies the device in error messages.
func NewLine(name string, rw io.ReadWriteCloser) *Line {
	return &Line{name: name, rw: rw, reader: bufio.NewReader(rw)}
}

// Name returns the device name given at construction.
func (l *Line) Name() string { return l.name }

func (l *Line) Write(ctx context.Context, line string) error {
	if err := l.ready(ctx); err != nil {
		return err
	}
	if _, err := io.WriteString(l.rw, line+"\n"); err != nil {
		return fmt.Errorf("write %q to %s: %w", line, l.name, err)
	}
	return nil
}

// Query writes line and reads its response. Once the line is written the
// response is always consumed, even if ctx ends meanwhile, so that the next
// query never reads a stale answer.
func (l *Line) Query(ctx context.Context, line string) (string, error) {
	if err := l.Write(ctx, line); err != nil {
		return "", err
	}
	resp, err := l.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && resp != "") {
		return "", fmt.Errorf("read response to %q from %s: %w", line, l.name, err)
	}
	return strings.TrimSpace(resp), nil
}

func (l *Line) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.rw.Close()
}

func (l *Line) ready(ctx context.Context) error {
	if l.closed {
		return ErrClosed
	}
	return ctx.Err()
}
