package scpi

import (
	"context"
	"errors"
	"testing"

	"github.com/jmwilson/ollie/pkg/device/devicetest"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStepper = Stepper{
	TimebaseScale: ":TIMEBASE:SCALE",
	ChannelScale:  ":CHANNEL%d:SCALE",
	ChannelProbe:  ":CHANNEL%d:PROBE",
	Timebase:      ladder.MustNew(1e-3, 2e-3, 5e-3, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5),
	Vertical:      ladder.MustNew(0.1, 0.2, 0.5, 1, 2, 5),
}

func TestStepTimebase(t *testing.T) {
	tests := []struct {
		name    string
		current string
		up      bool
		want    domain.Outcome
		writes  []string
	}{
		{"increase from 1", "1", true, domain.Applied, []string{":TIMEBASE:SCALE 2"}},
		{"decrease from 1", "+1.00000E+00", false, domain.Applied, []string{":TIMEBASE:SCALE 0.5"}},
		{"increase between entries", "3e-3", true, domain.Applied, []string{":TIMEBASE:SCALE 0.005"}},
		{"decrease to small value", "2e-3", false, domain.Applied, []string{":TIMEBASE:SCALE 0.001"}},
		{"top of ladder", "5", true, domain.BoundaryReached, nil},
		{"bottom of ladder", "1e-3", false, domain.BoundaryReached, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := devicetest.NewRecorder().Respond(":TIMEBASE:SCALE?", tt.current)
			outcome, err := testStepper.StepTimebase(context.Background(), rec, tt.up)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, []string{":TIMEBASE:SCALE?"}, rec.Queries())
			assert.Equal(t, tt.writes, rec.Writes())
		})
	}
}

func TestStepVertical(t *testing.T) {
	tests := []struct {
		name   string
		scale  string
		ratio  string
		up     bool
		want   domain.Outcome
		writes []string
	}{
		{"decrease at unity ratio", "1", "1", false, domain.Applied, []string{":CHANNEL1:SCALE 0.5"}},
		{"increase at unity ratio", "1", "1", true, domain.Applied, []string{":CHANNEL1:SCALE 2"}},
		{"ten to one probe", "10", "10", true, domain.Applied, []string{":CHANNEL1:SCALE 20"}},
		{"ten to one probe down", "2", "10", false, domain.Applied, []string{":CHANNEL1:SCALE 1"}},
		{"top of ladder", "5", "1", true, domain.BoundaryReached, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := devicetest.NewRecorder().
				Respond(":CHANNEL1:SCALE?", tt.scale).
				Respond(":CHANNEL1:PROBE?", tt.ratio)
			outcome, err := testStepper.StepVertical(context.Background(), rec, 1, tt.up)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, []string{":CHANNEL1:SCALE?", ":CHANNEL1:PROBE?"}, rec.Queries(), "queries are strictly ordered")
			assert.Equal(t, tt.writes, rec.Writes())
		})
	}
}

func TestStepVertical_BadResponses(t *testing.T) {
	ctx := context.Background()

	rec := devicetest.NewRecorder().Respond(":CHANNEL2:SCALE?", "1").Respond(":CHANNEL2:PROBE?", "0")
	_, err := testStepper.StepVertical(ctx, rec, 2, true)
	var rerr *ResponseError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ":CHANNEL2:PROBE?", rerr.Query)
	assert.Empty(t, rec.Writes())

	rec = devicetest.NewRecorder().Respond(":CHANNEL2:SCALE?", "garbage")
	_, err = testStepper.StepVertical(ctx, rec, 2, true)
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, []string{":CHANNEL2:SCALE?"}, rec.Queries(), "no second query after a bad response")
}

func TestStepTimebase_NonFiniteResponses(t *testing.T) {
	for _, resp := range []string{"inf", "-Inf", "+INF", "NaN"} {
		t.Run(resp, func(t *testing.T) {
			rec := devicetest.NewRecorder().Respond(":TIMEBASE:SCALE?", resp)
			outcome, err := testStepper.StepTimebase(context.Background(), rec, false)
			var rerr *ResponseError
			require.True(t, errors.As(err, &rerr), "got %v", err)
			assert.Equal(t, "not a finite number", rerr.Reason)
			assert.Equal(t, domain.Ignored, outcome)
			assert.Empty(t, rec.Writes())
		})
	}
}

func TestStepTimebase_ChannelFailure(t *testing.T) {
	boom := errors.New("usb reset")
	rec := devicetest.NewRecorder().RespondAll("1").FailAfter(1, boom)
	_, err := testStepper.StepTimebase(context.Background(), rec, true)
	assert.ErrorIs(t, err, boom)
}

func TestSetAndApply(t *testing.T) {
	assert.Equal(t, ":RUN", Set(":RUN"))
	assert.Equal(t, ":TRIGGER:LEVEL 0.5,CHANNEL1", Set(":TRIGGER:LEVEL", "0.5", "CHANNEL1"))

	rec := devicetest.NewRecorder()
	outcome, err := Apply(context.Background(), rec, ":SAVE:IMAGE:FORMAT PNG", ":SAVE:IMAGE")
	require.NoError(t, err)
	assert.Equal(t, domain.Applied, outcome)
	assert.Equal(t, []string{":SAVE:IMAGE:FORMAT PNG", ":SAVE:IMAGE"}, rec.Writes())

	_, err = Unsupported(domain.OpSaveImage, domain.DialectRigol, "")
	var uerr *domain.UnsupportedOperationError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, domain.DialectRigol, uerr.Dialect)
}
