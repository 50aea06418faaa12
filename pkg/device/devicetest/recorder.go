// Package devicetest provides a scripted, in-memory device channel for tests.
package devicetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrClosed is returned by a Recorder after Close.
var ErrClosed = errors.New("devicetest: channel closed")

// Recorder is a fake instrument. It records every line sent to it and answers
// queries from scripted responses.
type Recorder struct {
	mu         sync.Mutex
	transcript []string
	writes     []string
	queries    []string
	responses  map[string][]string
	fallback   *string
	failAfter  int
	failErr    error
	closed     bool
}

// NewRecorder returns an empty Recorder. Queries fail until a response is scripted.
func NewRecorder() *Recorder {
	return &Recorder{responses: make(map[string][]string), failAfter: -1}
}

// Respond queues responses for a query line. They are consumed in order.
func (r *Recorder) Respond(query string, responses ...string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[query] = append(r.responses[query], responses...)
	return r
}

// RespondAll answers any query without a scripted response with value.
func (r *Recorder) RespondAll(value string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = &value
	return r
}

// FailAfter makes every line after the first n fail with err.
func (r *Recorder) FailAfter(n int, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAfter = n
	r.failErr = err
	return r
}

func (r *Recorder) Write(ctx context.Context, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.send(ctx, line); err != nil {
		return err
	}
	r.writes = append(r.writes, line)
	return nil
}

func (r *Recorder) Query(ctx context.Context, line string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !strings.HasSuffix(line, "?") {
		return "", fmt.Errorf("devicetest: query %q does not end in '?'", line)
	}
	if err := r.send(ctx, line); err != nil {
		return "", err
	}
	r.queries = append(r.queries, line)

	if queued := r.responses[line]; len(queued) > 0 {
		r.responses[line] = queued[1:]
		return queued[0], nil
	}
	if r.fallback != nil {
		return *r.fallback, nil
	}
	return "", fmt.Errorf("devicetest: no response scripted for %q", line)
}

func (r *Recorder) send(ctx context.Context, line string) error {
	if r.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.failAfter >= 0 && len(r.transcript) >= r.failAfter {
		return r.failErr
	}
	r.transcript = append(r.transcript, line)
	return nil
}

// Close marks the channel closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Writes returns the command lines written, excluding queries.
func (r *Recorder) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

// Queries returns the query lines sent.
func (r *Recorder) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// Transcript returns every line sent, writes and queries, in order.
func (r *Recorder) Transcript() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.transcript...)
}

// Reset forgets recorded lines but keeps scripted responses.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript = nil
	r.writes = nil
	r.queries = nil
}
