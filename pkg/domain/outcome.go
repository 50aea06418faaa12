package domain

import "fmt"

// Outcome reports what a dispatch did to the instrument.
type Outcome int

const (
	// Ignored means no operation is mapped to the intent name. Nothing was sent.
	Ignored Outcome = iota
	// Applied means the operation's command sequence was written.
	Applied
	// BoundaryReached means a stepped adjustment was already at its ladder extreme.
	// The read-back queries were issued but no setting was written.
	BoundaryReached
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Applied:
		return "applied"
	case BoundaryReached:
		return "boundary_reached"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON and logs.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name written by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, known := range []Outcome{Ignored, Applied, BoundaryReached} {
		if string(text) == known.String() {
			*o = known
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
