package rigol

import (
	"github.com/jmwilson/ollie/pkg/ladder"
	"github.com/jmwilson/ollie/pkg/vocab"
)

var MeasurementSources = vocab.NewTable("measurement source", map[string]string{
	"channel one":      "CHANNEL1",
	"channel two":      "CHANNEL2",
	"channel three":    "CHANNEL3",
	"channel four":     "CHANNEL4",
	"digital zero":     "D0",
	"digital one":      "D1",
	"digital two":      "D2",
	"digital three":    "D3",
	"digital four":     "D4",
	"digital five":     "D5",
	"digital six":      "D6",
	"digital seven":    "D7",
	"digital eight":    "D8",
	"digital nine":     "D9",
	"digital ten":      "D10",
	"digital eleven":   "D11",
	"digital twelve":   "D12",
	"digital thirteen": "D13",
	"digital fourteen": "D14",
	"digital fifteen":  "D15",
	"function":         "MATH",
})

// DisplaySources addresses digital channels through the logic analyzer subsystem.
var DisplaySources = vocab.NewTable("display source", map[string]string{
	"channel one":      "CHANNEL1",
	"channel two":      "CHANNEL2",
	"channel three":    "CHANNEL3",
	"channel four":     "CHANNEL4",
	"digital zero":     "LA:DIGITAL0",
	"digital one":      "LA:DIGITAL1",
	"digital two":      "LA:DIGITAL2",
	"digital three":    "LA:DIGITAL3",
	"digital four":     "LA:DIGITAL4",
	"digital five":     "LA:DIGITAL5",
	"digital six":      "LA:DIGITAL6",
	"digital seven":    "LA:DIGITAL7",
	"digital eight":    "LA:DIGITAL8",
	"digital nine":     "LA:DIGITAL9",
	"digital ten":      "LA:DIGITAL10",
	"digital eleven":   "LA:DIGITAL11",
	"digital twelve":   "LA:DIGITAL12",
	"digital thirteen": "LA:DIGITAL13",
	"digital fourteen": "LA:DIGITAL14",
	"digital fifteen":  "LA:DIGITAL15",
	"function":         "MATH",
})

// TimebaseOffsets holds the horizontal offset per reference, in divisions of
// the current time scale.
var TimebaseOffsets = vocab.NewTable("timebase reference", map[string]float64{
	"left":   4,
	"center": 0,
	"right":  -4,
})

var MeasurementKinds = vocab.NewTable("measurement type", map[string]string{
	"duty cycle":           "PDUTY",
	"fall time":            "FTIME",
	"frequency":            "FREQUENCY",
	"overshoot":            "OVERSHOOT",
	"period":               "PERIOD",
	"preshoot":             "PRESHOOT",
	"rise time":            "RTIME",
	"amplitude":            "VAMP",
	"average":              "VAVG",
	"base":                 "VBASE",
	"maximum":              "VMAX",
	"minimum":              "VMIN",
	"peak to peak":         "VPP",
	"top":                  "VTOP",
	"pulse width":          "PWIDTH",
	"negative pulse width": "NWIDTH",
})

var TriggerSources = vocab.NewTable("trigger source", map[string]string{
	"channel one":      "CHANNEL1",
	"channel two":      "CHANNEL2",
	"channel three":    "CHANNEL3",
	"channel four":     "CHANNEL4",
	"digital zero":     "D0",
	"digital one":      "D1",
	"digital two":      "D2",
	"digital three":    "D3",
	"digital four":     "D4",
	"digital five":     "D5",
	"digital six":      "D6",
	"digital seven":    "D7",
	"digital eight":    "D8",
	"digital nine":     "D9",
	"digital ten":      "D10",
	"digital eleven":   "D11",
	"digital twelve":   "D12",
	"digital thirteen": "D13",
	"digital fourteen": "D14",
	"digital fifteen":  "D15",
	"line":             "AC",
})

// TriggerSlopes has no alternate entry; the edge trigger only offers
// rising, falling and either.
var TriggerSlopes = vocab.NewTable("trigger slope", map[string]string{
	"negative": "NEGATIVE",
	"positive": "POSITIVE",
	"either":   "RFAL",
})

var SweepModes = vocab.NewTable("sweep mode", map[string]string{
	"normal": "NORMAL",
	"auto":   "AUTO",
})

var ChannelCouplings = vocab.NewTable("channel coupling", map[string]string{
	"ac": "AC",
	"dc": "DC",
})

var TriggerCouplings = vocab.NewTable("trigger coupling", map[string]string{
	"ac":                   "AC",
	"dc":                   "DC",
	"low frequency reject": "LFREJECT",
})

// Time per division on the DS7054. Below 500 ps and above 1000 s are out of
// range and kept as sentinels.
var TimebaseLadder = ladder.MustNew(
	100e-12, 200e-12, 500e-12,
	1e-9, 2e-9, 5e-9,
	10e-9, 20e-9, 50e-9,
	100e-9, 200e-9, 500e-9,
	1e-6, 2e-6, 5e-6,
	10e-6, 20e-6, 50e-6,
	100e-6, 200e-6, 500e-6,
	1e-3, 2e-3, 5e-3,
	10e-3, 20e-3, 50e-3,
	100e-3, 200e-3, 500e-3,
	1, 2, 5,
	10, 20, 50,
	100, 200, 500,
	1000, 2000, 5000,
)

// Volts per division on the DS1054.
var VerticalLadder = ladder.MustNew(
	100e-6, 200e-6, 500e-6,
	1e-3, 2e-3, 5e-3,
	10e-3, 20e-3, 50e-3,
	100e-3, 200e-3, 500e-3,
	1, 2, 5,
	10, 20, 50,
)
