package domain

import (
	"fmt"
	"strconv"
)

// SlotKind identifies the type carried by a Slot value.
type SlotKind int

const (
	// SlotEnum holds a spoken enumeration value (e.g. "channel one", "volts").
	SlotEnum SlotKind = iota
	// SlotInteger holds a whole number.
	SlotInteger
	// SlotReal holds a real number.
	SlotReal
)

func (k SlotKind) String() string {
	switch k {
	case SlotEnum:
		return "enum"
	case SlotInteger:
		return "integer"
	case SlotReal:
		return "real"
	default:
		return "SlotKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Slot is a single named parameter of an Intent.
// Text is set for SlotEnum, Number for SlotInteger and SlotReal.
type Slot struct {
	Name   string   `json:"slotName"`
	Kind   SlotKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// EnumSlot creates a slot holding a spoken enumeration value.
func EnumSlot(name, value string) Slot {
	return Slot{Name: name, Kind: SlotEnum, Text: value}
}

// IntSlot creates a slot holding a whole number.
func IntSlot(name string, value int) Slot {
	return Slot{Name: name, Kind: SlotInteger, Number: float64(value)}
}

// RealSlot creates a slot holding a real number.
func RealSlot(name string, value float64) Slot {
	return Slot{Name: name, Kind: SlotReal, Number: value}
}

// Value returns the slot value as an untyped Go value (string or float64).
func (s Slot) Value() any {
	if s.Kind == SlotEnum {
		return s.Text
	}
	return s.Number
}

func (s Slot) String() string {
	if s.Kind == SlotEnum {
		return fmt.Sprintf("%s=%q", s.Name, s.Text)
	}
	return fmt.Sprintf("%s=%s", s.Name, strconv.FormatFloat(s.Number, 'g', -1, 64))
}

// Intent is a structured command with a name and named parameter slots.
// It is produced externally from recognized speech and discarded after one dispatch.
type Intent struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`

	// SessionID identifies the dialogue session the intent arrived on, if any.
	SessionID string `json:"sessionId,omitempty"`
	// Site identifies the satellite/microphone that heard the command, if any.
	Site string `json:"siteId,omitempty"`
}

// NewIntent builds an intent from a name and its slots, in order.
func NewIntent(name string, slots ...Slot) Intent {
	return Intent{Name: name, Slots: slots}
}
