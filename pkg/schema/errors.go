package schema

import "fmt"

// ValidationError represents an intent whose slots do not match what an operation needs.
type ValidationError struct {
	Intent string // Intent name
	Slot   string // Slot name; empty for slot count mismatches
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation, if any

	// Expected and Got carry the slot counts of a count mismatch.
	Expected int
	Got      int
}

func (e *ValidationError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("intent %s: %s: expected %d slots, got %d", e.Intent, e.Reason, e.Expected, e.Got)
	}
	if e.Value == nil {
		return fmt.Sprintf("intent %s: slot %q: %s", e.Intent, e.Slot, e.Reason)
	}
	return fmt.Sprintf("intent %s: slot %q: %s (got %v)", e.Intent, e.Slot, e.Reason, e.Value)
}
