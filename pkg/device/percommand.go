package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoReadback is returned by channels that cannot read instrument responses.
var ErrNoReadback = errors.New("device channel has no read-back path")

// Opener opens a fresh write-only connection to an instrument.
type Opener func(ctx context.Context) (io.WriteCloser, error)

// PerCommand opens a new connection for every line and closes it straight after.
// Some instruments (the Keysight 1000-X over usbtmc) misbehave when held open,
// so nothing is kept between writes and queries are impossible.
type PerCommand struct {
	name   string
	open   Opener
	closed bool
}

// NewPerCommand returns a channel using open for each write.
func NewPerCommand(name string, open Opener) *PerCommand {
	return &PerCommand{name: name, open: open}
}

// PerCommandFile opens path write-only for every command.
func PerCommandFile(path string) *PerCommand {
	return NewPerCommand(path, func(context.Context) (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_WRONLY, 0)
	})
}

func (p *PerCommand) Write(ctx context.Context, line string) error {
	if p.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := p.open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.name, err)
	}
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %q to %s: %w", line, p.name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p.name, err)
	}
	return nil
}

func (p *PerCommand) Query(ctx context.Context, line string) (string, error) {
	return "", fmt.Errorf("query %q on %s: %w", line, p.name, ErrNoReadback)
}

func (p *PerCommand) Close() error {
	p.closed = true
	return nil
}
