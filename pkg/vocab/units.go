package vocab

import "strconv"

// Quantity is the physical kind a vertical unit measures.
type Quantity string

const (
	Voltage Quantity = "voltage"
	Current Quantity = "current"
)

// VerticalUnit describes a spoken vertical unit.
type VerticalUnit struct {
	Quantity   Quantity
	Multiplier float64
}

// TimeUnits converts spoken time units into seconds.
var TimeUnits = NewTable("time unit", map[string]float64{
	"seconds":      1,
	"milliseconds": 1e-3,
	"microseconds": 1e-6,
	"nanoseconds":  1e-9,
})

// VerticalUnits converts spoken vertical units into volts or amperes.
var VerticalUnits = NewTable("vertical unit", map[string]VerticalUnit{
	"volts":      {Quantity: Voltage, Multiplier: 1},
	"millivolts": {Quantity: Voltage, Multiplier: 1e-3},
	"amps":       {Quantity: Current, Multiplier: 1},
	"milliamps":  {Quantity: Current, Multiplier: 1e-3},
})

// Convert scales a spoken magnitude into base units.
func Convert(magnitude, multiplier float64) float64 {
	return magnitude * multiplier
}

// Seconds converts a magnitude in the named time unit to seconds.
func Seconds(magnitude float64, unit string) (float64, error) {
	m, err := TimeUnits.Lookup(unit)
	if err != nil {
		return 0, err
	}
	return Convert(magnitude, m), nil
}

// Vertical converts a magnitude in the named vertical unit to volts or amperes,
// returning the quantity it measures.
func Vertical(magnitude float64, unit string) (float64, Quantity, error) {
	u, err := VerticalUnits.Lookup(unit)
	if err != nil {
		return 0, "", err
	}
	return Convert(magnitude, u.Multiplier), u.Quantity, nil
}

// FormatNumber renders a value the way every dialect writes numbers:
// %G with six significant digits, e.g. "2", "0.1", "1E-05".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'G', 6, 64)
}
