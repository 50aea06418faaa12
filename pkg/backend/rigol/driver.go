// Package rigol drives Rigol DS/MSO oscilloscopes over a persistent channel.
//
// Commands use the upper-case long forms. The timebase reference has no
// dedicated command on these scopes and is emulated by moving the horizontal
// offset relative to the current time scale.
package rigol

import (
	"context"
	"fmt"

	"github.com/jmwilson/ollie/pkg/backend/scpi"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/schema"
	"github.com/jmwilson/ollie/pkg/vocab"
)

// Capabilities is the rigol column of the capability matrix.
var Capabilities = domain.Capabilities{
	domain.OpRunCapture:              domain.Direct,
	domain.OpStopCapture:             domain.Direct,
	domain.OpSingleCapture:           domain.Direct,
	domain.OpShowChannel:             domain.Direct,
	domain.OpHideChannel:             domain.Direct,
	domain.OpSetTimebaseScale:        domain.Direct,
	domain.OpIncreaseTimebase:        domain.Computed,
	domain.OpDecreaseTimebase:        domain.Computed,
	domain.OpSetTimebaseReference:    domain.Computed,
	domain.OpSetChannelVerticalScale: domain.Direct,
	domain.OpIncreaseVerticalScale:   domain.Computed,
	domain.OpDecreaseVerticalScale:   domain.Computed,
	domain.OpMeasure:                 domain.Direct,
	domain.OpClearAllMeasurements:    domain.Direct,
	domain.OpSetTriggerSlope:         domain.Direct,
	domain.OpSetTriggerSource:        domain.Direct,
	domain.OpSetTriggerLevel:         domain.Direct,
	domain.OpSetTriggerCoupling:      domain.Direct,
	domain.OpSetTriggerHoldoff:       domain.Direct,
	domain.OpSetTriggerSweepMode:     domain.Direct,
	domain.OpForceTrigger:            domain.Direct,
	domain.OpAutoTriggerLevels:       domain.Unsupported,
	domain.OpSaveImage:               domain.Unsupported,
	domain.OpSetProbeCoupling:        domain.Direct,
	domain.OpSetProbeAttenuation:     domain.Direct,
	domain.OpAutoScale:               domain.Direct,
	domain.OpDefaultSetup:            domain.Direct,
}

const timebaseScale = ":TIMEBASE:SCALE"

var stepper = scpi.Stepper{
	TimebaseScale: timebaseScale,
	ChannelScale:  ":CHANNEL%d:SCALE",
	ChannelProbe:  ":CHANNEL%d:PROBE",
	Timebase:      TimebaseLadder,
	Vertical:      VerticalLadder,
}

// Driver translates operations into rigol commands on one channel.
type Driver struct {
	ch ports.DeviceChannel
}

// New binds a driver to ch. The driver is the channel's only user from then on.
func New(ch ports.DeviceChannel) *Driver {
	return &Driver{ch: ch}
}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectRigol }

func (d *Driver) Capabilities() domain.Capabilities { return Capabilities }

func (d *Driver) RunCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":RUN")
}

func (d *Driver) StopCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":STOP")
}

func (d *Driver) SingleCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":SINGLE")
}

func (d *Driver) ShowChannel(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	return d.display(ctx, in, domain.OpShowChannel, "ON")
}

func (d *Driver) HideChannel(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	return d.display(ctx, in, domain.OpHideChannel, "OFF")
}

func (d *Driver) display(ctx context.Context, in domain.Intent, op domain.Operation, state string) (domain.Outcome, error) {
	r := schema.Read(in, op)
	spoken := r.Enum("source")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	source, err := DisplaySources.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":"+source+":DISPLAY", state))
}

func (d *Driver) SetTimebaseScale(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTimebaseScale)
	scale, units := r.Real("scale"), r.Enum("units")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	seconds, err := vocab.Seconds(scale, units)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(timebaseScale, vocab.FormatNumber(seconds)))
}

func (d *Driver) IncreaseTimebase(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return stepper.StepTimebase(ctx, d.ch, true)
}

func (d *Driver) DecreaseTimebase(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return stepper.StepTimebase(ctx, d.ch, false)
}

// SetTimebaseReference places the trigger point at the left edge, center or
// right edge of the screen by writing an offset of +4, 0 or -4 divisions.
func (d *Driver) SetTimebaseReference(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTimebaseReference)
	spoken := r.Enum("reference")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	divisions, err := TimebaseOffsets.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}

	// 1. Read back live state
	scale, err := scpi.ReadFloat(ctx, d.ch, scpi.Query(timebaseScale))
	if err != nil {
		return domain.Ignored, err
	}

	// 2. Apply
	offset := divisions * scale
	if divisions == 0 {
		offset = 0
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TIMEBASE:OFFSET", vocab.FormatNumber(offset)))
}

func (d *Driver) SetChannelVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetChannelVerticalScale)
	channel, scale, units := r.Int("channel"), r.Real("scale"), r.Enum("units")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	value, quantity, err := vocab.Vertical(scale, units)
	if err != nil {
		return domain.Ignored, err
	}
	unit := "VOLTAGE"
	if quantity == vocab.Current {
		unit = "AMPERE"
	}
	return scpi.Apply(ctx, d.ch,
		scpi.Set(fmt.Sprintf(":CHANNEL%d:UNITS", channel), unit),
		scpi.Set(fmt.Sprintf(":CHANNEL%d:SCALE", channel), vocab.FormatNumber(value)),
	)
}

func (d *Driver) IncreaseVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	return d.stepVertical(ctx, in, domain.OpIncreaseVerticalScale, true)
}

func (d *Driver) DecreaseVerticalScale(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	return d.stepVertical(ctx, in, domain.OpDecreaseVerticalScale, false)
}

func (d *Driver) stepVertical(ctx context.Context, in domain.Intent, op domain.Operation, up bool) (domain.Outcome, error) {
	r := schema.Read(in, op)
	channel := r.Int("channel")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	return stepper.StepVertical(ctx, d.ch, channel, up)
}

func (d *Driver) Measure(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpMeasure)
	spokenSource, spokenKind := r.Enum("source"), r.Enum("type")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	source, err := MeasurementSources.Lookup(spokenSource)
	if err != nil {
		return domain.Ignored, err
	}
	kind, err := MeasurementKinds.Lookup(spokenKind)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":MEASURE:ITEM", kind, source))
}

func (d *Driver) ClearAllMeasurements(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":MEASURE:CLEAR ALL")
}

func (d *Driver) SetTriggerSlope(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerSlope)
	spoken := r.Enum("slope")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	slope, err := TriggerSlopes.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:EDGE:SLOPE", slope))
}

func (d *Driver) SetTriggerSource(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerSource)
	spoken := r.Enum("source")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	source, err := TriggerSources.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:EDGE:SOURCE", source))
}

// SetTriggerLevel sets the edge trigger level on the current trigger source.
// The edge level command takes no source argument, so an intent naming one
// is rejected.
func (d *Driver) SetTriggerLevel(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerLevel)
	level := r.Real("level")
	var spokenUnits string
	if r.Has("units") {
		spokenUnits = r.Enum("units")
	}
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	if r.Has("source") {
		return scpi.Unsupported(domain.OpSetTriggerLevel, domain.DialectRigol, "trigger level cannot name a source")
	}

	if r.Has("units") {
		converted, _, err := vocab.Vertical(level, spokenUnits)
		if err != nil {
			return domain.Ignored, err
		}
		level = converted
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:EDGE:LEVEL", vocab.FormatNumber(level)))
}

func (d *Driver) SetTriggerCoupling(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerCoupling)
	spoken := r.Enum("coupling")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	coupling, err := TriggerCouplings.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:COUPLING", coupling))
}

func (d *Driver) SetTriggerHoldoff(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerHoldoff)
	holdoff, units := r.Real("holdoff"), r.Enum("units")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	seconds, err := vocab.Seconds(holdoff, units)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:HOLDOFF", vocab.FormatNumber(seconds)))
}

func (d *Driver) SetTriggerSweepMode(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerSweepMode)
	spoken := r.Enum("mode")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	mode, err := SweepModes.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:SWEEP", mode))
}

func (d *Driver) ForceTrigger(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":TFORCE")
}

func (d *Driver) AutoTriggerLevels(context.Context, domain.Intent) (domain.Outcome, error) {
	return scpi.Unsupported(domain.OpAutoTriggerLevels, domain.DialectRigol, "")
}

func (d *Driver) SaveImage(context.Context, domain.Intent) (domain.Outcome, error) {
	return scpi.Unsupported(domain.OpSaveImage, domain.DialectRigol, "no command saves a screenshot to USB storage")
}

func (d *Driver) SetProbeCoupling(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetProbeCoupling)
	channel, spoken := r.Int("channel"), r.Enum("coupling")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	coupling, err := ChannelCouplings.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(fmt.Sprintf(":CHANNEL%d:COUPLING", channel), coupling))
}

func (d *Driver) SetProbeAttenuation(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetProbeAttenuation)
	channel, ratio := r.Int("channel"), r.Real("ratio")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(fmt.Sprintf(":CHANNEL%d:PROBE", channel), vocab.FormatNumber(ratio)))
}

func (d *Driver) AutoScale(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":AUTOSCALE")
}

func (d *Driver) DefaultSetup(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, "*RST")
}
