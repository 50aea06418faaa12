// Package keysightlegacy drives Keysight 1000-X oscilloscopes.
//
// The 1000-X is reached through a per-command channel (see device.PerCommand):
// each command opens a fresh connection, so nothing can be read back and the
// stepped operations, which need the current scale, are not offered.
// Commands use the mixed-case short forms from the programmer's guide,
// e.g. ":CHANnel1:DISPlay ON".
package keysightlegacy

import (
	"context"
	"fmt"

	"github.com/jmwilson/ollie/pkg/backend/scpi"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/schema"
	"github.com/jmwilson/ollie/pkg/vocab"
)

const noReadback = "requires reading instrument state over a per-command channel"

// Capabilities is the keysight-legacy column of the capability matrix.
var Capabilities = domain.Capabilities{
	domain.OpRunCapture:              domain.Direct,
	domain.OpStopCapture:             domain.Direct,
	domain.OpSingleCapture:           domain.Direct,
	domain.OpShowChannel:             domain.Direct,
	domain.OpHideChannel:             domain.Direct,
	domain.OpSetTimebaseScale:        domain.Direct,
	domain.OpIncreaseTimebase:        domain.Unsupported,
	domain.OpDecreaseTimebase:        domain.Unsupported,
	domain.OpSetTimebaseReference:    domain.Direct,
	domain.OpSetChannelVerticalScale: domain.Direct,
	domain.OpIncreaseVerticalScale:   domain.Unsupported,
	domain.OpDecreaseVerticalScale:   domain.Unsupported,
	domain.OpMeasure:                 domain.Direct,
	domain.OpClearAllMeasurements:    domain.Direct,
	domain.OpSetTriggerSlope:         domain.Direct,
	domain.OpSetTriggerSource:        domain.Direct,
	domain.OpSetTriggerLevel:         domain.Unsupported,
	domain.OpSetTriggerCoupling:      domain.Direct,
	domain.OpSetTriggerHoldoff:       domain.Direct,
	domain.OpSetTriggerSweepMode:     domain.Direct,
	domain.OpForceTrigger:            domain.Direct,
	domain.OpAutoTriggerLevels:       domain.Unsupported,
	domain.OpSaveImage:               domain.Direct,
	domain.OpSetProbeCoupling:        domain.Direct,
	domain.OpSetProbeAttenuation:     domain.Direct,
	domain.OpAutoScale:               domain.Direct,
	domain.OpDefaultSetup:            domain.Direct,
}

// Driver translates operations into 1000-X commands.
type Driver struct {
	ch ports.DeviceChannel
}

// New binds a driver to ch, normally a device.PerCommand channel.
func New(ch ports.DeviceChannel) *Driver {
	return &Driver{ch: ch}
}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectKeysightLegacy }

func (d *Driver) Capabilities() domain.Capabilities { return Capabilities }

func (d *Driver) unsupported(op domain.Operation, reason string) (domain.Outcome, error) {
	return scpi.Unsupported(op, domain.DialectKeysightLegacy, reason)
}

func (d *Driver) RunCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":RUN")
}

func (d *Driver) StopCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":STOP")
}

func (d *Driver) SingleCapture(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":SINGle")
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":"+source+":DISPlay", state))
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TIMebase:SCALe", vocab.FormatNumber(seconds)))
}

func (d *Driver) IncreaseTimebase(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpIncreaseTimebase, noReadback)
}

func (d *Driver) DecreaseTimebase(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpDecreaseTimebase, noReadback)
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TIMebase:REFerence", ref))
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
		unit = "AMPere"
	}
	return scpi.Apply(ctx, d.ch,
		scpi.Set(fmt.Sprintf(":CHANnel%d:UNITs", channel), unit),
		scpi.Set(fmt.Sprintf(":CHANnel%d:SCALe", channel), vocab.FormatNumber(value)),
	)
}

func (d *Driver) IncreaseVerticalScale(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpIncreaseVerticalScale, noReadback)
}

func (d *Driver) DecreaseVerticalScale(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpDecreaseVerticalScale, noReadback)
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":MEASure:"+kind, source))
}

func (d *Driver) ClearAllMeasurements(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":MEASure:CLEar")
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGger:SLOPe", slope))
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGger:SOURce", source))
}

func (d *Driver) SetTriggerLevel(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpSetTriggerLevel, "")
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGger:COUPling", coupling))
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGger:HOLDoff", vocab.FormatNumber(seconds)))
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
	return scpi.Apply(ctx, d.ch, scpi.Set(":TRIGger:SWEep", mode))
}

func (d *Driver) ForceTrigger(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":TRIGger:FORCe")
}

func (d *Driver) AutoTriggerLevels(context.Context, domain.Intent) (domain.Outcome, error) {
	return d.unsupported(domain.OpAutoTriggerLevels, "")
}

func (d *Driver) SaveImage(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":SAVE:IMAGe:FORMat PNG", ":SAVE:IMAGe")
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
	return scpi.Apply(ctx, d.ch, scpi.Set(fmt.Sprintf(":CHANnel%d:COUPling", channel), coupling))
}

func (d *Driver) SetProbeAttenuation(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	r := schema.Read(in, domain.OpSetProbeAttenuation)
	channel, ratio := r.Int("channel"), r.Real("ratio")
	if err := r.Err(); err != nil {
		return domain.Ignored, err
	}
	return scpi.Apply(ctx, d.ch, scpi.Set(fmt.Sprintf(":CHANnel%d:PROBe", channel), vocab.FormatNumber(ratio)))
}

func (d *Driver) AutoScale(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, ":AUToscale")
}

func (d *Driver) DefaultSetup(ctx context.Context, _ domain.Intent) (domain.Outcome, error) {
	return scpi.Apply(ctx, d.ch, "*RST")
}
