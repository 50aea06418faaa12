package keysightlegacy

import "github.com/jmwilson/ollie/pkg/vocab"

var MeasurementSources = vocab.NewTable("measurement source", map[string]string{
	"channel one":   "CHANnel1",
	"channel two":   "CHANnel2",
	"channel three": "CHANnel3",
	"channel four":  "CHANnel4",
	"function":      "FUNCtion",
	"reference one": "WMEMory1",
	"reference two": "WMEMory2",
	"external":      "EXTernal",
})

// DisplaySources reuses the measurement sources. Whether the 1000-X accepts
// :DISPlay on the function, reference and external nodes is unverified.
var DisplaySources = MeasurementSources

var TimebaseReferences = vocab.NewTable("timebase reference", map[string]string{
	"left":   "LEFT",
	"center": "CENTer",
	"right":  "RIGHt",
})

var MeasurementKinds = vocab.NewTable("measurement type", map[string]string{
	"duty cycle":           "DUTYcycle",
	"fall time":            "FALLtime",
	"frequency":            "FREQuency",
	"overshoot":            "OVERshoot",
	"period":               "PERiod",
	"preshoot":             "PREShoot",
	"rise time":            "RISetime",
	"amplitude":            "VAMPlitude",
	"average":              "VAVerage",
	"base":                 "VBASe",
	"maximum":              "VMAX",
	"minimum":              "VMIN",
	"peak to peak":         "VPP",
	"top":                  "VTOP",
	"pulse width":          "PWIDth",
	"negative pulse width": "NWIDth",
})

var TriggerSources = vocab.NewTable("trigger source", map[string]string{
	"channel one":   "CHANnel1",
	"channel two":   "CHANnel2",
	"channel three": "CHANnel3",
	"channel four":  "CHANnel4",
	"external":      "EXTernal",
	"line":          "LINE",
})

var TriggerSlopes = vocab.NewTable("trigger slope", map[string]string{
	"negative":  "NEGative",
	"positive":  "POSitive",
	"either":    "EITHer",
	"alternate": "ALTernate",
})

var SweepModes = vocab.NewTable("sweep mode", map[string]string{
	"normal": "NORMal",
	"auto":   "AUTO",
})

var ChannelCouplings = vocab.NewTable("channel coupling", map[string]string{
	"ac": "AC",
	"dc": "DC",
})

var TriggerCouplings = vocab.NewTable("trigger coupling", map[string]string{
	"ac":                   "AC",
	"dc":                   "DC",
	"low frequency reject": "LFReject",
})
