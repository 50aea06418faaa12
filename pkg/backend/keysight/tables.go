package keysight

import (
	"github.com/jmwilson/ollie/pkg/ladder"
	"github.com/jmwilson/ollie/pkg/vocab"
)

// MeasurementSources maps spoken sources to measurement targets.
var MeasurementSources = vocab.NewTable("measurement source", map[string]string{
	"channel one":      "CHANNEL1",
	"channel two":      "CHANNEL2",
	"channel three":    "CHANNEL3",
	"channel four":     "CHANNEL4",
	"digital zero":     "DIGITAL0",
	"digital one":      "DIGITAL1",
	"digital two":      "DIGITAL2",
	"digital three":    "DIGITAL3",
	"digital four":     "DIGITAL4",
	"digital five":     "DIGITAL5",
	"digital six":      "DIGITAL6",
	"digital seven":    "DIGITAL7",
	"digital eight":    "DIGITAL8",
	"digital nine":     "DIGITAL9",
	"digital ten":      "DIGITAL10",
	"digital eleven":   "DIGITAL11",
	"digital twelve":   "DIGITAL12",
	"digital thirteen": "DIGITAL13",
	"digital fourteen": "DIGITAL14",
	"digital fifteen":  "DIGITAL15",
	"function":         "FUNCTION",
	"reference one":    "WMEMORY1",
	"reference two":    "WMEMORY2",
	"external":         "EXTERNAL",
})

// DisplaySources shares the measurement source vocabulary; every source has a :DISPLAY node.
var DisplaySources = MeasurementSources

var TimebaseReferences = vocab.NewTable("timebase reference", map[string]string{
	"left":   "LEFT",
	"center": "CENTER",
	"right":  "RIGHT",
})

var MeasurementKinds = vocab.NewTable("measurement type", map[string]string{
	"duty cycle":           "DUTYCYCLE",
	"fall time":            "FALLTIME",
	"frequency":            "FREQUENCY",
	"overshoot":            "OVERSHOOT",
	"period":               "PERIOD",
	"preshoot":             "PRESHOOT",
	"rise time":            "RISETIME",
	"amplitude":            "VAMPLITUDE",
	"average":              "VAVERAGE",
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
	"digital zero":     "DIGITAL0",
	"digital one":      "DIGITAL1",
	"digital two":      "DIGITAL2",
	"digital three":    "DIGITAL3",
	"digital four":     "DIGITAL4",
	"digital five":     "DIGITAL5",
	"digital six":      "DIGITAL6",
	"digital seven":    "DIGITAL7",
	"digital eight":    "DIGITAL8",
	"digital nine":     "DIGITAL9",
	"digital ten":      "DIGITAL10",
	"digital eleven":   "DIGITAL11",
	"digital twelve":   "DIGITAL12",
	"digital thirteen": "DIGITAL13",
	"digital fourteen": "DIGITAL14",
	"digital fifteen":  "DIGITAL15",
	"external":         "EXTERNAL",
	"line":             "LINE",
	"generator":        "WGEN",
})

var TriggerSlopes = vocab.NewTable("trigger slope", map[string]string{
	"negative":  "NEGATIVE",
	"positive":  "POSITIVE",
	"either":    "EITHER",
	"alternate": "ALTERNATE",
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

// Time per division on the 6000-X. The outermost entries are out of range but
// kept as sentinels: stepping onto them makes the scope flag the error on
// screen, like turning the knob past its stop.
var TimebaseLadder = ladder.MustNew(
	10e-12, 20e-12, 50e-12,
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
)

// Volts per division, 100 µV to 50 V.
var VerticalLadder = ladder.MustNew(
	100e-6, 200e-6, 500e-6,
	1e-3, 2e-3, 5e-3,
	10e-3, 20e-3, 50e-3,
	100e-3, 200e-3, 500e-3,
	1, 2, 5,
	10, 20, 50,
)
