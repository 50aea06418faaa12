package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/jmwilson/ollie/pkg/device/devicetest"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/schema"
	"github.com/jmwilson/ollie/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleIntent returns an intent for op whose slot values every dialect accepts.
func SampleIntent(op domain.Operation) domain.Intent {
	name := string(op)
	switch op {
	case domain.OpShowChannel, domain.OpHideChannel, domain.OpSetTriggerSource:
		return domain.NewIntent(name, domain.EnumSlot("source", "channel one"))
	case domain.OpSetTimebaseScale:
		return domain.NewIntent(name, domain.RealSlot("scale", 2), domain.EnumSlot("units", "milliseconds"))
	case domain.OpSetTimebaseReference:
		return domain.NewIntent(name, domain.EnumSlot("reference", "center"))
	case domain.OpSetChannelVerticalScale:
		return domain.NewIntent(name,
			domain.IntSlot("channel", 1), domain.RealSlot("scale", 2), domain.EnumSlot("units", "volts"))
	case domain.OpIncreaseVerticalScale, domain.OpDecreaseVerticalScale:
		return domain.NewIntent(name, domain.IntSlot("channel", 1))
	case domain.OpMeasure:
		return domain.NewIntent(name, domain.EnumSlot("source", "channel one"), domain.EnumSlot("type", "frequency"))
	case domain.OpSetTriggerSlope:
		return domain.NewIntent(name, domain.EnumSlot("slope", "positive"))
	case domain.OpSetTriggerLevel:
		return domain.NewIntent(name, domain.RealSlot("level", 0.5))
	case domain.OpSetTriggerCoupling:
		return domain.NewIntent(name, domain.EnumSlot("coupling", "dc"))
	case domain.OpSetTriggerHoldoff:
		return domain.NewIntent(name, domain.RealSlot("holdoff", 100), domain.EnumSlot("units", "milliseconds"))
	case domain.OpSetTriggerSweepMode:
		return domain.NewIntent(name, domain.EnumSlot("mode", "normal"))
	case domain.OpSetProbeCoupling:
		return domain.NewIntent(name, domain.IntSlot("channel", 1), domain.EnumSlot("coupling", "dc"))
	case domain.OpSetProbeAttenuation:
		return domain.NewIntent(name, domain.IntSlot("channel", 1), domain.RealSlot("ratio", 10))
	default:
		return domain.NewIntent(name)
	}
}

// RunDriverContract runs a suite of tests to verify that a Driver implementation
// adheres to the defined interface contract and to its own capability set.
func RunDriverContract(t *testing.T, newDriver func(ch DeviceChannel) Driver) {
	ctx := context.Background()

	probe := newDriver(devicetest.NewRecorder())
	caps := probe.Capabilities()
	dialect := probe.Dialect()
	require.NotEmpty(t, dialect, "Dialect should not be empty")

	t.Run("Operation Table", func(t *testing.T) {
		ops := Operations(probe)
		for _, op := range domain.Operations() {
			assert.NotNil(t, ops[op], "operation %s should be bound", op)
		}
	})

	for _, op := range domain.Operations() {
		op := op
		t.Run("Apply "+string(op), func(t *testing.T) {
			rec := devicetest.NewRecorder().RespondAll("1")
			fn := Operations(newDriver(rec))[op]

			outcome, err := fn(ctx, SampleIntent(op))

			switch caps.Of(op) {
			case domain.Unsupported:
				var uerr *domain.UnsupportedOperationError
				require.True(t, errors.As(err, &uerr), "want UnsupportedOperationError, got %v", err)
				assert.Equal(t, op, uerr.Operation)
				assert.Equal(t, dialect, uerr.Dialect)
				assert.Empty(t, rec.Transcript(), "unsupported operations must not touch the device")
			case domain.Direct:
				require.NoError(t, err)
				assert.Equal(t, domain.Applied, outcome)
				assert.NotEmpty(t, rec.Writes())
				assert.Empty(t, rec.Queries(), "direct operations must not read back")
			case domain.Computed:
				require.NoError(t, err)
				assert.Equal(t, domain.Applied, outcome)
				assert.NotEmpty(t, rec.Queries(), "computed operations read back live state")
				assert.NotEmpty(t, rec.Writes())
			}
		})
	}

	t.Run("Slot Count Mismatch", func(t *testing.T) {
		for _, op := range domain.Operations() {
			if caps.Of(op) == domain.Unsupported || len(schema.For(op)) == 0 {
				continue
			}
			rec := devicetest.NewRecorder().RespondAll("1")
			_, err := Operations(newDriver(rec))[op](ctx, domain.NewIntent(string(op)))

			var verr *schema.ValidationError
			assert.True(t, errors.As(err, &verr), "%s: want ValidationError, got %v", op, err)
			assert.Empty(t, rec.Transcript(), "%s: nothing may be sent before validation", op)
		}
	})

	t.Run("Unknown Vocabulary", func(t *testing.T) {
		for _, op := range domain.Operations() {
			if caps.Of(op) == domain.Unsupported {
				continue
			}
			sample := SampleIntent(op)
			for i, slot := range sample.Slots {
				if slot.Kind != domain.SlotEnum {
					continue
				}
				in := domain.NewIntent(sample.Name, append([]domain.Slot(nil), sample.Slots...)...)
				in.Slots[i] = domain.EnumSlot(slot.Name, "no such value")

				rec := devicetest.NewRecorder().RespondAll("1")
				_, err := Operations(newDriver(rec))[op](ctx, in)

				var uerr *vocab.UnknownValueError
				assert.True(t, errors.As(err, &uerr), "%s/%s: want UnknownValueError, got %v", op, slot.Name, err)
				assert.Empty(t, rec.Transcript(), "%s/%s: nothing may be sent for unknown values", op, slot.Name)
			}
		}
	})

	t.Run("Slotless Operations Ignore Slots", func(t *testing.T) {
		rec := devicetest.NewRecorder()
		in := domain.NewIntent(string(domain.OpRunCapture), domain.EnumSlot("noise", "x"))
		outcome, err := newDriver(rec).RunCapture(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, domain.Applied, outcome)
	})

	if caps.Of(domain.OpIncreaseTimebase) == domain.Computed {
		t.Run("Boundary Reached", func(t *testing.T) {
			rec := devicetest.NewRecorder().RespondAll("1e9")
			outcome, err := newDriver(rec).IncreaseTimebase(ctx, SampleIntent(domain.OpIncreaseTimebase))
			require.NoError(t, err)
			assert.Equal(t, domain.BoundaryReached, outcome)
			assert.Empty(t, rec.Writes(), "no write at the top of the ladder")

			rec = devicetest.NewRecorder().RespondAll("1e-15")
			outcome, err = newDriver(rec).DecreaseTimebase(ctx, SampleIntent(domain.OpDecreaseTimebase))
			require.NoError(t, err)
			assert.Equal(t, domain.BoundaryReached, outcome)
			assert.Empty(t, rec.Writes(), "no write at the bottom of the ladder")
		})

		t.Run("Bad Read-back", func(t *testing.T) {
			rec := devicetest.NewRecorder().RespondAll("not a number")
			_, err := newDriver(rec).IncreaseTimebase(ctx, SampleIntent(domain.OpIncreaseTimebase))
			assert.Error(t, err)
			assert.Empty(t, rec.Writes())
		})
	}
}
