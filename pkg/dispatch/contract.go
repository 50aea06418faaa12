package dispatch

import (
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/schema"
)

// Contract pairs an intent name with the slots its operation reads.
type Contract struct {
	Name  string        `json:"name"`
	Slots schema.Schema `json:"slots"`
}

// Contracts describes the slots of each named intent, resolving Aliases.
// Names that map to no known operation get an empty slot set.
func Contracts(names []string) []Contract {
	out := make([]Contract, 0, len(names))
	for _, name := range names {
		op, ok := Aliases[name]
		if !ok {
			op = domain.Operation(name)
		}
		out = append(out, Contract{Name: name, Slots: schema.For(op)})
	}
	return out
}
