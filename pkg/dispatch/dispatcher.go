// Package dispatch maps intent names onto driver operations.
package dispatch

import (
	"context"
	"sort"
	"sync"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
)

// Aliases maps alternate intent names onto operations. setTimeBaseScale is
// the spelling some assistant skills publish.
var Aliases = map[string]domain.Operation{
	"setTimeBaseScale": domain.OpSetTimebaseScale,
}

// Dispatcher holds the intent-name table for one driver.
type Dispatcher struct {
	mu      sync.RWMutex
	driver  ports.Driver
	entries map[string]ports.OperationFunc
}

var _ ports.IntentDispatcher = (*Dispatcher)(nil)

// New builds the dispatch table for d: one entry per operation plus Aliases.
func New(d ports.Driver) *Dispatcher {
	ops := ports.Operations(d)
	entries := make(map[string]ports.OperationFunc, len(ops)+len(Aliases))
	for op, fn := range ops {
		entries[string(op)] = fn
	}
	for alias, op := range Aliases {
		entries[alias] = ops[op]
	}
	return &Dispatcher{driver: d, entries: entries}
}

// Register binds an additional intent name. An existing entry is overwritten.
func (r *Dispatcher) Register(name string, fn ports.OperationFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = fn
}

// Driver returns the bound driver.
func (r *Dispatcher) Driver() ports.Driver { return r.driver }

// Dispatch applies the operation mapped to in.Name. Unmapped names are ignored
// without error; driver errors are returned unchanged.
func (r *Dispatcher) Dispatch(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r.mu.RLock()
	fn, ok := r.entries[in.Name]
	r.mu.RUnlock()

	if !ok {
		return domain.Ignored, nil
	}
	return fn(ctx, in)
}

// Handles reports whether name is mapped.
func (r *Dispatcher) Handles(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Operations lists the mapped intent names in sorted order.
func (r *Dispatcher) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
