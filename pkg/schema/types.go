package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmwilson/ollie/pkg/domain"
)

// Type defines the contract for slot validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "enum", "int").
	Name() string
	// Validate checks if a slot value conforms to this type.
	Validate(s domain.Slot) error
}

// --- Built-in Type Implementations ---

// EnumType accepts spoken enumeration values.
type EnumType struct{}

func (t *EnumType) Name() string { return "enum" }

func (t *EnumType) Validate(s domain.Slot) error {
	_, err := text(s)
	return err
}

// IntType accepts positive whole numbers that fit in 32 bits, including
// numeric strings. Every integer slot numbers a channel, counted from 1.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(s domain.Slot) error {
	_, err := whole(s)
	return err
}

// RealType accepts any finite number, including numeric strings.
type RealType struct{}

func (t *RealType) Name() string { return "real" }

func (t *RealType) Validate(s domain.Slot) error {
	_, err := number(s)
	return err
}

// OptionalType marks a slot that may be absent.
type OptionalType struct {
	Inner Type
}

func (t *OptionalType) Name() string { return t.Inner.Name() + "?" }

func (t *OptionalType) Validate(s domain.Slot) error { return t.Inner.Validate(s) }

// EnumValue returns a Type for enumeration slots.
func EnumValue() Type { return &EnumType{} }

// IntValue returns a Type for integer slots.
func IntValue() Type { return &IntType{} }

// RealValue returns a Type for real-number slots.
func RealValue() Type { return &RealType{} }

// Optional marks t as not required.
func Optional(t Type) Type { return &OptionalType{Inner: t} }

func isOptional(t Type) bool {
	_, ok := t.(*OptionalType)
	return ok
}

func text(s domain.Slot) (string, error) {
	if s.Kind != domain.SlotEnum {
		return "", fmt.Errorf("expected enum, got %s", s.Kind)
	}
	return s.Text, nil
}

func number(s domain.Slot) (float64, error) {
	var v float64
	switch s.Kind {
	case domain.SlotInteger, domain.SlotReal:
		v = s.Number
	case domain.SlotEnum:
		// Recognizers occasionally deliver numbers as text ("100").
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s.Text), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", s.Text)
		}
		v = parsed
	default:
		return 0, fmt.Errorf("expected number, got %s", s.Kind)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expected finite number")
	}
	return v, nil
}

func whole(s domain.Slot) (int, error) {
	v, err := number(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("expected int, got float (not a whole number)")
	}
	if v < 1 || v > math.MaxInt32 {
		return 0, fmt.Errorf("expected int between 1 and %d", math.MaxInt32)
	}
	return int(v), nil
}
