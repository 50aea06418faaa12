package domain

// Operation names an abstract oscilloscope operation.
// The value is the intent name that triggers it.
type Operation string

// Abstract operation set shared by every dialect.
const (
	OpRunCapture              Operation = "runCapture"
	OpStopCapture             Operation = "stopCapture"
	OpSingleCapture           Operation = "singleCapture"
	OpShowChannel             Operation = "showChannel"
	OpHideChannel             Operation = "hideChannel"
	OpSetTimebaseScale        Operation = "setTimebaseScale"
	OpIncreaseTimebase        Operation = "increaseTimebase"
	OpDecreaseTimebase        Operation = "decreaseTimebase"
	OpSetTimebaseReference    Operation = "setTimebaseReference"
	OpSetChannelVerticalScale Operation = "setChannelVerticalScale"
	OpIncreaseVerticalScale   Operation = "increaseVerticalScale"
	OpDecreaseVerticalScale   Operation = "decreaseVerticalScale"
	OpMeasure                 Operation = "measure"
	OpClearAllMeasurements    Operation = "clearAllMeasurements"
	OpSetTriggerSlope         Operation = "setTriggerSlope"
	OpSetTriggerSource        Operation = "setTriggerSource"
	OpSetTriggerLevel         Operation = "setTriggerLevel"
	OpSetTriggerCoupling      Operation = "setTriggerCoupling"
	OpSetTriggerHoldoff       Operation = "setTriggerHoldoff"
	OpSetTriggerSweepMode     Operation = "setTriggerSweepMode"
	OpForceTrigger            Operation = "forceTrigger"
	OpAutoTriggerLevels       Operation = "autoTriggerLevels"
	OpSaveImage               Operation = "saveImage"
	OpSetProbeCoupling        Operation = "setProbeCoupling"
	OpSetProbeAttenuation     Operation = "setProbeAttenuation"
	OpAutoScale               Operation = "autoScale"
	OpDefaultSetup            Operation = "defaultSetup"
)

// Operations lists the full abstract operation set.
func Operations() []Operation {
	return []Operation{
		OpRunCapture, OpStopCapture, OpSingleCapture,
		OpShowChannel, OpHideChannel,
		OpSetTimebaseScale, OpIncreaseTimebase, OpDecreaseTimebase, OpSetTimebaseReference,
		OpSetChannelVerticalScale, OpIncreaseVerticalScale, OpDecreaseVerticalScale,
		OpMeasure, OpClearAllMeasurements,
		OpSetTriggerSlope, OpSetTriggerSource, OpSetTriggerLevel, OpSetTriggerCoupling,
		OpSetTriggerHoldoff, OpSetTriggerSweepMode, OpForceTrigger, OpAutoTriggerLevels,
		OpSaveImage, OpSetProbeCoupling, OpSetProbeAttenuation, OpAutoScale, OpDefaultSetup,
	}
}
