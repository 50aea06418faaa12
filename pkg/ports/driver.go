package ports

import (
	"context"

	"github.com/jmwilson/ollie/pkg/domain"
)

// OperationFunc applies one abstract operation for an intent.
type OperationFunc func(ctx context.Context, in domain.Intent) (domain.Outcome, error)

// Driver implements the abstract operation set for one dialect, bound to one DeviceChannel.
//
// Every operation validates its slots before any I/O. Operations the dialect does not
// offer return *domain.UnsupportedOperationError without writing anything. Stepped
// operations return domain.BoundaryReached when the ladder has no further entry.
type Driver interface {
	Dialect() domain.Dialect
	Capabilities() domain.Capabilities

	RunCapture(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	StopCapture(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SingleCapture(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	ShowChannel(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	HideChannel(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	SetTimebaseScale(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	IncreaseTimebase(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	DecreaseTimebase(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTimebaseReference(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	SetChannelVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	IncreaseVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	DecreaseVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	Measure(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	ClearAllMeasurements(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	SetTriggerSlope(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTriggerSource(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTriggerLevel(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTriggerCoupling(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTriggerHoldoff(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetTriggerSweepMode(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	ForceTrigger(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	AutoTriggerLevels(ctx context.Context, in domain.Intent) (domain.Outcome, error)

	SaveImage(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetProbeCoupling(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	SetProbeAttenuation(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	AutoScale(ctx context.Context, in domain.Intent) (domain.Outcome, error)
	DefaultSetup(ctx context.Context, in domain.Intent) (domain.Outcome, error)
}

// Operations binds every abstract operation to the driver's method.
func Operations(d Driver) map[domain.Operation]OperationFunc {
	return map[domain.Operation]OperationFunc{
		domain.OpRunCapture:              d.RunCapture,
		domain.OpStopCapture:             d.StopCapture,
		domain.OpSingleCapture:           d.SingleCapture,
		domain.OpShowChannel:             d.ShowChannel,
		domain.OpHideChannel:             d.HideChannel,
		domain.OpSetTimebaseScale:        d.SetTimebaseScale,
		domain.OpIncreaseTimebase:        d.IncreaseTimebase,
		domain.OpDecreaseTimebase:        d.DecreaseTimebase,
		domain.OpSetTimebaseReference:    d.SetTimebaseReference,
		domain.OpSetChannelVerticalScale: d.SetChannelVerticalScale,
		domain.OpIncreaseVerticalScale:   d.IncreaseVerticalScale,
		domain.OpDecreaseVerticalScale:   d.DecreaseVerticalScale,
		domain.OpMeasure:                 d.Measure,
		domain.OpClearAllMeasurements:    d.ClearAllMeasurements,
		domain.OpSetTriggerSlope:         d.SetTriggerSlope,
		domain.OpSetTriggerSource:        d.SetTriggerSource,
		domain.OpSetTriggerLevel:         d.SetTriggerLevel,
		domain.OpSetTriggerCoupling:      d.SetTriggerCoupling,
		domain.OpSetTriggerHoldoff:       d.SetTriggerHoldoff,
		domain.OpSetTriggerSweepMode:     d.SetTriggerSweepMode,
		domain.OpForceTrigger:            d.ForceTrigger,
		domain.OpAutoTriggerLevels:       d.AutoTriggerLevels,
		domain.OpSaveImage:               d.SaveImage,
		domain.OpSetProbeCoupling:        d.SetProbeCoupling,
		domain.OpSetProbeAttenuation:     d.SetProbeAttenuation,
		domain.OpAutoScale:               d.AutoScale,
		domain.OpDefaultSetup:            d.DefaultSetup,
	}
}
