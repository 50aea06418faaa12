package schema

import "github.com/jmwilson/ollie/pkg/domain"

var operationSlots = map[domain.Operation]Schema{
	domain.OpShowChannel:             {"source": EnumValue()},
	domain.OpHideChannel:             {"source": EnumValue()},
	domain.OpSetTimebaseScale:        {"scale": RealValue(), "units": EnumValue()},
	domain.OpSetTimebaseReference:    {"reference": EnumValue()},
	domain.OpSetChannelVerticalScale: {"channel": IntValue(), "scale": RealValue(), "units": EnumValue()},
	domain.OpIncreaseVerticalScale:   {"channel": IntValue()},
	domain.OpDecreaseVerticalScale:   {"channel": IntValue()},
	domain.OpMeasure:                 {"source": EnumValue(), "type": EnumValue()},
	domain.OpSetTriggerSlope:         {"slope": EnumValue()},
	domain.OpSetTriggerSource:        {"source": EnumValue()},
	domain.OpSetTriggerLevel: {
		"level":  RealValue(),
		"source": Optional(EnumValue()),
		"units":  Optional(EnumValue()),
	},
	domain.OpSetTriggerCoupling:  {"coupling": EnumValue()},
	domain.OpSetTriggerHoldoff:   {"holdoff": RealValue(), "units": EnumValue()},
	domain.OpSetTriggerSweepMode: {"mode": EnumValue()},
	domain.OpSetProbeCoupling:    {"channel": IntValue(), "coupling": EnumValue()},
	domain.OpSetProbeAttenuation: {"channel": IntValue(), "ratio": RealValue()},
}

// For returns the slot contract of an operation.
// Slotless operations return an empty schema.
func For(op domain.Operation) Schema {
	if s, ok := operationSlots[op]; ok {
		return s
	}
	return Schema{}
}
