// Package ladder holds the discrete per-division settings an instrument accepts
// and the search used to step between them.
package ladder

import (
	"fmt"
	"math"
)

// Tolerance is the relative distance under which a value is treated as equal
// to a ladder entry. Read-backs are float renderings and rarely exact.
const Tolerance = 1e-9

// Ladder is an immutable, strictly increasing sequence of positive values.
type Ladder struct {
	steps []float64
}

// New validates and builds a ladder.
func New(values ...float64) (Ladder, error) {
	if len(values) == 0 {
		return Ladder{}, fmt.Errorf("ladder: no values")
	}
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			return Ladder{}, fmt.Errorf("ladder: value %d (%g) is not a positive finite number", i, v)
		}
		if i > 0 && v <= values[i-1] {
			return Ladder{}, fmt.Errorf("ladder: value %d (%g) does not increase on %g", i, v, values[i-1])
		}
	}
	steps := make([]float64, len(values))
	copy(steps, values)
	return Ladder{steps: steps}, nil
}

// MustNew is like New but panics on invalid input. Intended for package-level tables.
func MustNew(values ...float64) Ladder {
	l, err := New(values...)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of entries.
func (l Ladder) Len() int { return len(l.steps) }

// Values returns a copy of the entries.
func (l Ladder) Values() []float64 {
	out := make([]float64, len(l.steps))
	copy(out, l.steps)
	return out
}

// Min returns the smallest entry.
func (l Ladder) Min() float64 { return l.steps[0] }

// Max returns the largest entry.
func (l Ladder) Max() float64 { return l.steps[len(l.steps)-1] }

// Next returns the smallest entry strictly greater than current.
// ok is false when current is already at or above the top of the ladder.
func (l Ladder) Next(current float64) (float64, bool) {
	for _, v := range l.steps {
		if v > current && !equal(v, current) {
			return v, true
		}
	}
	return 0, false
}

// Prev returns the largest entry strictly less than current.
// ok is false when current is already at or below the bottom of the ladder.
func (l Ladder) Prev(current float64) (float64, bool) {
	for i := len(l.steps) - 1; i >= 0; i-- {
		v := l.steps[i]
		if v < current && !equal(v, current) {
			return v, true
		}
	}
	return 0, false
}

// Step moves up when up is true and down otherwise.
func (l Ladder) Step(current float64, up bool) (float64, bool) {
	if up {
		return l.Next(current)
	}
	return l.Prev(current)
}

func equal(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance*math.Max(math.Abs(a), math.Abs(b))
}
