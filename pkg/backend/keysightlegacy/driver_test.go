package keysightlegacy_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jmwilson/ollie/pkg/backend/keysightlegacy"
	"github.com/jmwilson/ollie/pkg/device"
	"github.com/jmwilson/ollie/pkg/device/devicetest"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Driver = (*keysightlegacy.Driver)(nil)

func TestDriverContract(t *testing.T) {
	ports.RunDriverContract(t, func(ch ports.DeviceChannel) ports.Driver {
		return keysightlegacy.New(ch)
	})
}

func TestDriver_Commands(t *testing.T) {
	tests := []struct {
		op     domain.Operation
		intent domain.Intent
		writes []string
	}{
		{domain.OpSingleCapture, domain.NewIntent("singleCapture"), []string{":SINGle"}},
		{domain.OpShowChannel,
			domain.NewIntent("showChannel", domain.EnumSlot("source", "channel two")),
			[]string{":CHANnel2:DISPlay ON"}},
		{domain.OpHideChannel,
			domain.NewIntent("hideChannel", domain.EnumSlot("source", "reference one")),
			[]string{":WMEMory1:DISPlay OFF"}},
		{domain.OpSetTimebaseScale,
			domain.NewIntent("setTimebaseScale", domain.RealSlot("scale", 5), domain.EnumSlot("units", "milliseconds")),
			[]string{":TIMebase:SCALe 0.005"}},
		{domain.OpSetTimebaseReference,
			domain.NewIntent("setTimebaseReference", domain.EnumSlot("reference", "center")),
			[]string{":TIMebase:REFerence CENTer"}},
		{domain.OpSetChannelVerticalScale,
			domain.NewIntent("setChannelVerticalScale",
				domain.IntSlot("channel", 3), domain.RealSlot("scale", 500), domain.EnumSlot("units", "milliamps")),
			[]string{":CHANnel3:UNITs AMPere", ":CHANnel3:SCALe 0.5"}},
		{domain.OpMeasure,
			domain.NewIntent("measure", domain.EnumSlot("type", "rise time"), domain.EnumSlot("source", "channel one")),
			[]string{":MEASure:RISetime CHANnel1"}},
		{domain.OpClearAllMeasurements, domain.NewIntent("clearAllMeasurements"), []string{":MEASure:CLEar"}},
		{domain.OpSetTriggerSlope,
			domain.NewIntent("setTriggerSlope", domain.EnumSlot("slope", "alternate")),
			[]string{":TRIGger:SLOPe ALTernate"}},
		{domain.OpSetTriggerSource,
			domain.NewIntent("setTriggerSource", domain.EnumSlot("source", "line")),
			[]string{":TRIGger:SOURce LINE"}},
		{domain.OpSetTriggerSweepMode,
			domain.NewIntent("setTriggerSweepMode", domain.EnumSlot("mode", "normal")),
			[]string{":TRIGger:SWEep NORMal"}},
		{domain.OpSetTriggerHoldoff,
			domain.NewIntent("setTriggerHoldoff", domain.RealSlot("holdoff", 2), domain.EnumSlot("units", "microseconds")),
			[]string{":TRIGger:HOLDoff 2E-06"}},
		{domain.OpSaveImage, domain.NewIntent("saveImage"), []string{":SAVE:IMAGe:FORMat PNG", ":SAVE:IMAGe"}},
		{domain.OpSetProbeAttenuation,
			domain.NewIntent("setProbeAttenuation", domain.IntSlot("channel", 1), domain.RealSlot("ratio", 10)),
			[]string{":CHANnel1:PROBe 10"}},
		{domain.OpDefaultSetup, domain.NewIntent("defaultSetup"), []string{"*RST"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			rec := devicetest.NewRecorder()
			outcome, err := ports.Operations(keysightlegacy.New(rec))[tt.op](context.Background(), tt.intent)
			require.NoError(t, err)
			assert.Equal(t, domain.Applied, outcome)
			assert.Equal(t, tt.writes, rec.Writes())
		})
	}
}

func TestDriver_NoDigitalOrGeneratorSources(t *testing.T) {
	_, err := keysightlegacy.TriggerSources.Lookup("generator")
	assert.Error(t, err)
	_, err = keysightlegacy.MeasurementSources.Lookup("digital one")
	assert.Error(t, err)
}

type countingWriter struct {
	bytes.Buffer
	opens int
}

func TestDriver_OverPerCommandChannel(t *testing.T) {
	w := &countingWriter{}
	ch := device.NewPerCommand("usbtmc", func(context.Context) (io.WriteCloser, error) {
		w.opens++
		return nopWriteCloser{&w.Buffer}, nil
	})
	d := keysightlegacy.New(ch)
	ctx := context.Background()

	_, err := d.SaveImage(ctx, domain.NewIntent("saveImage"))
	require.NoError(t, err)
	assert.Equal(t, ":SAVE:IMAGe:FORMat PNG\n:SAVE:IMAGe\n", w.String())
	assert.Equal(t, 2, w.opens)

	_, err = d.IncreaseTimebase(ctx, domain.NewIntent("increaseTimebase"))
	var uerr *domain.UnsupportedOperationError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, domain.DialectKeysightLegacy, uerr.Dialect)
	assert.Equal(t, 2, w.opens, "unsupported operations never open the device")
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// TestVocabularySweep sends every declared key of every table through the
// operation that consumes it.
func TestVocabularySweep(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		table  string
		keys   []string
		op     func(*keysightlegacy.Driver) ports.OperationFunc
		intent func(key string) domain.Intent
	}{
		{
			table: "display sources",
			keys:  keysightlegacy.DisplaySources.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.ShowChannel },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("showChannel", domain.EnumSlot("source", key))
			},
		},
		{
			table: "timebase references",
			keys:  keysightlegacy.TimebaseReferences.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTimebaseReference },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTimebaseReference", domain.EnumSlot("reference", key))
			},
		},
		{
			table: "measurement sources",
			keys:  keysightlegacy.MeasurementSources.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.Measure },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("measure", domain.EnumSlot("source", key), domain.EnumSlot("type", keysightlegacy.MeasurementKinds.Keys()[0]))
			},
		},
		{
			table: "measurement kinds",
			keys:  keysightlegacy.MeasurementKinds.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.Measure },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("measure", domain.EnumSlot("source", keysightlegacy.MeasurementSources.Keys()[0]), domain.EnumSlot("type", key))
			},
		},
		{
			table: "trigger sources",
			keys:  keysightlegacy.TriggerSources.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTriggerSource },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTriggerSource", domain.EnumSlot("source", key))
			},
		},
		{
			table: "trigger slopes",
			keys:  keysightlegacy.TriggerSlopes.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTriggerSlope },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTriggerSlope", domain.EnumSlot("slope", key))
			},
		},
		{
			table: "sweep modes",
			keys:  keysightlegacy.SweepModes.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTriggerSweepMode },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTriggerSweepMode", domain.EnumSlot("mode", key))
			},
		},
		{
			table: "trigger couplings",
			keys:  keysightlegacy.TriggerCouplings.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTriggerCoupling },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTriggerCoupling", domain.EnumSlot("coupling", key))
			},
		},
		{
			table: "channel couplings",
			keys:  keysightlegacy.ChannelCouplings.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetProbeCoupling },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setProbeCoupling", domain.IntSlot("channel", 1), domain.EnumSlot("coupling", key))
			},
		},
		{
			table: "time units",
			keys:  vocab.TimeUnits.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTimebaseScale },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTimebaseScale", domain.RealSlot("scale", 10), domain.EnumSlot("units", key))
			},
		},
		{
			table: "holdoff units",
			keys:  vocab.TimeUnits.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetTriggerHoldoff },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setTriggerHoldoff", domain.RealSlot("holdoff", 2), domain.EnumSlot("units", key))
			},
		},
		{
			table: "vertical units",
			keys:  vocab.VerticalUnits.Keys(),
			op:    func(d *keysightlegacy.Driver) ports.OperationFunc { return d.SetChannelVerticalScale },
			intent: func(key string) domain.Intent {
				return domain.NewIntent("setChannelVerticalScale", domain.IntSlot("channel", 1), domain.RealSlot("scale", 2), domain.EnumSlot("units", key))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			require.NotEmpty(t, tt.keys)
			for _, key := range tt.keys {
				rec := devicetest.NewRecorder().RespondAll("1")
				outcome, err := tt.op(keysightlegacy.New(rec))(ctx, tt.intent(key))
				require.NoError(t, err, key)
				assert.Equal(t, domain.Applied, outcome, key)
				require.NotEmpty(t, rec.Writes(), key)
				for _, w := range rec.Writes() {
					assert.NotContains(t, w, "%!", key)
				}
			}
		})
	}
}
