// Package keysight drives modern Keysight InfiniiVision oscilloscopes
// (3000T, 4000-X, 6000-X) over a persistent channel.
//
// Commands use the upper-case long forms, e.g. ":CHANNEL1:DISPLAY ON".
package keysight

import (
	"context"
	"fmt"

	"github.com/jmwilson/ollie/pkg/backend/scpi"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/schema"
	"github.com/jmwilson/ollie/pkg/vocab"
)

// Capabilities is the keysight column of the capability matrix.
var Capabilities = domain.Capabilities{
	domain.OpRunCapture:              domain.Direct,
	domain.OpStopCapture:             domain.Direct,
	domain.OpSingleCapture:           domain.Direct,
	domain.OpShowChannel:             domain.Direct,
	domain.OpHideChannel:             domain.Direct,
	domain.OpSetTimebaseScale:        domain.Direct,
	domain.OpIncreaseTimebase:        domain.Computed,
	domain.OpDecreaseTimebase:        domain.Computed,
	domain.OpSetTimebaseReference:    domain.Direct,
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
	domain.OpAutoTriggerLevels:       domain.Direct,
	domain.OpSaveImage:               domain.Direct,
	domain.OpSetProbeCoupling:        domain.Direct,
	domain.OpSetProbeAttenuation:     domain.Direct,
	domain.OpAutoScale:               domain.Direct,
	domain.OpDefaultSetup:            domain.Direct,
}

var stepper = scpi.Stepper{
	TimebaseScale: ":TIMEBASE:SCALE",
	ChannelScale:  ":CHANNEL%d:SCALE",
	ChannelProbe:  ":CHANNEL%d:PROBE",
	Timebase:      TimebaseLadder,
	Vertical:      VerticalLadder,
}

// Driver translates operations into keysight commands on one channel.
type Driver struct {
	ch ports.DeviceChannel
}

// New binds a driver to ch. The driver is the channel's only user from then on.
func New(ch ports.DeviceChannel) *Driver {
	return &Driver{ch: ch}
}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectKeysight }

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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TIMEBASE:SCALE", vocab.FormatNumber(seconds)))
}

func (d *Driver) IncreaseTimebase(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return stepper.StepTimebase(ctx, d.ch, true)
}

func (d *Driver) DecreaseTimebase(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return stepper.StepTimebase(ctx, d.ch, false)
}

func (d *Driver) SetTimebaseReference(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTimebaseReference)
	spoken := r.Enum("reference")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	ref, err := TimebaseReferences.Lookup(spoken)
	if err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TIMEBASE:REFERENCE", ref))
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
	unit := "VOLT"
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":MEASURE:"+kind, source))
}

func (d *Driver) ClearAllMeasurements(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":MEASURE:CLEAR")
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:SLOPE", slope))
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:SOURCE", source))
}

// SetTriggerLevel writes ":TRIGGER:LEVEL <level>" or, when a source slot is
// given, the two-argument form ":TRIGGER:LEVEL <level>,<source>".
func (d *Driver) SetTriggerLevel(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetTriggerLevel)
	level := r.Real("level")
	var spokenUnits, spokenSource string
	if r.Has("units") {
		spokenUnits = r.Enum("units")
	}
	if r.Has("source") {
		spokenSource = r.Enum("source")
	}
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}

	if r.Has("units") {
		converted, _, err := vocab.Vertical(level, spokenUnits)
		if err != nil {
			return domain.Ignored, err
		}
		level = converted
	}
	args := []string{vocab.FormatNumber(level)}
	if r.Has("source") {
		source, err := TriggerSources.Lookup(spokenSource)
		if err != nil {
			return domain.Ignored, err
		}
		args = append(args, source)
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGGER:LEVEL", args...))
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
	return scpi.Apply(ctx, d.ch, ":TRIGGER:FORCE")
}

func (d *Driver) AutoTriggerLevels(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":TRIGGER:LEVEL:ASETUP")
}

func (d *Driver) SaveImage(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":SAVE:IMAGE:FORMAT PNG", ":SAVE:IMAGE")
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
	return scpi.Apply(ctx, d.ch, ":SYSTEM:PRESET")
}
