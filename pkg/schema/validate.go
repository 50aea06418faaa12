package schema

import (
	"sort"

	"github.com/jmwilson/ollie/pkg/domain"
)

// Schema is a map of slot names to their expected types.
// Example: {"channel": IntValue(), "scale": RealValue(), "units": EnumValue()}
type Schema map[string]Type

// Validate checks that the intent's slots conform to the schema.
// It reports the first failure found, visiting slots in name order.
func Validate(in domain.Intent, s Schema) error {
	if len(s) == 0 {
		// No schema = no validation
		return nil
	}

	required := 0
	for _, t := range s {
		if !isOptional(t) {
			required++
		}
	}
	if len(in.Slots) < required || len(in.Slots) > len(s) {
		expected := len(s)
		if len(in.Slots) < required {
			expected = required
		}
		return countError(in, expected)
	}

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := s[name]
		slot, ok := Lookup(in, name)
		if !ok {
			if isOptional(t) {
				continue
			}
			return missing(in, name)
		}
		if err := t.Validate(slot); err != nil {
			return &ValidationError{Intent: in.Name, Slot: name, Reason: err.Error(), Value: slot.Value()}
		}
	}

	return nil
}

// RequireSlotCount fails unless the intent carries exactly n slots.
func RequireSlotCount(in domain.Intent, n int) error {
	if len(in.Slots) != n {
		return countError(in, n)
	}
	return nil
}

// FindSlot returns the slot with the given name or a ValidationError.
func FindSlot(in domain.Intent, name string) (domain.Slot, error) {
	if slot, ok := Lookup(in, name); ok {
		return slot, nil
	}
	return domain.Slot{}, missing(in, name)
}

// Lookup returns the slot with the given name, if present.
func Lookup(in domain.Intent, name string) (domain.Slot, bool) {
	for _, slot := range in.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

// Enum returns the text of a required enumeration slot.
func Enum(in domain.Intent, name string) (string, error) {
	slot, err := FindSlot(in, name)
	if err != nil {
		return "", err
	}
	v, err := text(slot)
	if err != nil {
		return "", &ValidationError{Intent: in.Name, Slot: name, Reason: err.Error(), Value: slot.Value()}
	}
	return v, nil
}

// Int returns the value of a required whole-number slot.
func Int(in domain.Intent, name string) (int, error) {
	slot, err := FindSlot(in, name)
	if err != nil {
		return 0, err
	}
	v, err := whole(slot)
	if err != nil {
		return 0, &ValidationError{Intent: in.Name, Slot: name, Reason: err.Error(), Value: slot.Value()}
	}
	return v, nil
}

// Real returns the value of a required numeric slot.
func Real(in domain.Intent, name string) (float64, error) {
	slot, err := FindSlot(in, name)
	if err != nil {
		return 0, err
	}
	v, err := number(slot)
	if err != nil {
		return 0, &ValidationError{Intent: in.Name, Slot: name, Reason: err.Error(), Value: slot.Value()}
	}
	return v, nil
}

func countError(in domain.Intent, expected int) *ValidationError {
	return &ValidationError{
		Intent:   in.Name,
		Reason:   "slot count mismatch",
		Expected: expected,
		Got:      len(in.Slots),
	}
}

func missing(in domain.Intent, name string) *ValidationError {
	return &ValidationError{Intent: in.Name, Slot: name, Reason: "missing required slot"}
}
