package schema

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSlotCount(t *testing.T) {
	in := domain.NewIntent("setTimebaseScale", domain.RealSlot("scale", 2))

	assert.NoError(t, RequireSlotCount(in, 1))

	err := RequireSlotCount(in, 2)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "setTimebaseScale", verr.Intent)
	assert.Equal(t, 2, verr.Expected)
	assert.Equal(t, 1, verr.Got)
	assert.Contains(t, err.Error(), "setTimebaseScale")
	assert.Contains(t, err.Error(), "expected 2 slots, got 1")
}

func TestFindSlot(t *testing.T) {
	in := domain.NewIntent("measure",
		domain.EnumSlot("source", "channel one"),
		domain.EnumSlot("type", "frequency"),
	)

	slot, err := FindSlot(in, "type")
	require.NoError(t, err)
	assert.Equal(t, "frequency", slot.Text)

	_, err = FindSlot(in, "channel")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "channel", verr.Slot)
	assert.Equal(t, "missing required slot", verr.Reason)
}

func TestTypedAccessors(t *testing.T) {
	in := domain.NewIntent("setTriggerHoldoff",
		domain.EnumSlot("holdoff", "100"),
		domain.EnumSlot("units", "milliseconds"),
		domain.IntSlot("channel", 3),
		domain.RealSlot("ratio", 2.5),
	)

	holdoff, err := Real(in, "holdoff")
	require.NoError(t, err)
	assert.Equal(t, 100.0, holdoff)

	units, err := Enum(in, "units")
	require.NoError(t, err)
	assert.Equal(t, "milliseconds", units)

	ch, err := Int(in, "channel")
	require.NoError(t, err)
	assert.Equal(t, 3, ch)

	_, err = Int(in, "ratio")
	assert.ErrorContains(t, err, "not a whole number")

	for _, v := range []float64{1e19, -1, 0, math.MaxInt32 + 1} {
		_, err = Int(domain.NewIntent("increaseVerticalScale", domain.RealSlot("channel", v)), "channel")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "channel %g", v)
		assert.Contains(t, verr.Reason, "between 1 and")
	}

	_, err = Enum(in, "channel")
	assert.ErrorContains(t, err, "expected enum")

	_, err = Real(in, "units")
	assert.ErrorContains(t, err, "expected number")
}

func TestValidate(t *testing.T) {
	vertical := For(domain.OpSetChannelVerticalScale)
	level := For(domain.OpSetTriggerLevel)

	tests := []struct {
		name    string
		schema  Schema
		intent  domain.Intent
		wantErr string
	}{
		{
			name:   "all slots present",
			schema: vertical,
			intent: domain.NewIntent("setChannelVerticalScale",
				domain.IntSlot("channel", 1),
				domain.RealSlot("scale", 2),
				domain.EnumSlot("units", "volts"),
			),
		},
		{
			name:    "too few slots",
			schema:  vertical,
			intent:  domain.NewIntent("setChannelVerticalScale", domain.IntSlot("channel", 1)),
			wantErr: "expected 3 slots, got 1",
		},
		{
			name:   "right count but wrong name",
			schema: vertical,
			intent: domain.NewIntent("setChannelVerticalScale",
				domain.IntSlot("channel", 1),
				domain.RealSlot("scale", 2),
				domain.EnumSlot("unit", "volts"),
			),
			wantErr: `slot "units": missing required slot`,
		},
		{
			name:   "wrong kind",
			schema: vertical,
			intent: domain.NewIntent("setChannelVerticalScale",
				domain.RealSlot("channel", 1.5),
				domain.RealSlot("scale", 2),
				domain.EnumSlot("units", "volts"),
			),
			wantErr: `slot "channel"`,
		},
		{
			name:   "optional slots absent",
			schema: level,
			intent: domain.NewIntent("setTriggerLevel", domain.RealSlot("level", 0.5)),
		},
		{
			name:   "optional slots present",
			schema: level,
			intent: domain.NewIntent("setTriggerLevel",
				domain.RealSlot("level", 0.5),
				domain.EnumSlot("source", "channel two"),
				domain.EnumSlot("units", "millivolts"),
			),
		},
		{
			name:   "too many slots",
			schema: For(domain.OpShowChannel),
			intent: domain.NewIntent("showChannel",
				domain.EnumSlot("source", "channel one"),
				domain.EnumSlot("extra", "x"),
			),
			wantErr: "expected 1 slots, got 2",
		},
		{
			name:   "empty schema ignores slots",
			schema: For(domain.OpRunCapture),
			intent: domain.NewIntent("runCapture", domain.EnumSlot("anything", "x")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.intent, tt.schema)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchema_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(For(domain.OpSetTriggerLevel))
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"real","source":"enum?","units":"enum?"}`, string(data))
}

func TestFor_CoversEverySlottedOperation(t *testing.T) {
	for _, op := range domain.Operations() {
		for name, typ := range For(op) {
			assert.NotEmpty(t, name, "operation %s", op)
			assert.NotNil(t, typ, "operation %s slot %s", op, name)
		}
	}
	assert.Empty(t, For(domain.OpSaveImage))
}

func TestReader(t *testing.T) {
	in := domain.NewIntent("setChannelVerticalScale",
		domain.IntSlot("channel", 2),
		domain.RealSlot("scale", 0.5),
		domain.EnumSlot("units", "millivolts"),
	)
	r := Read(in, domain.OpSetChannelVerticalScale)
	ch, scale, units := r.Int("channel"), r.Real("scale"), r.Enum("units")
	require.NoError(t, r.Err())
	assert.Equal(t, 2, ch)
	assert.Equal(t, 0.5, scale)
	assert.Equal(t, "millivolts", units)
	assert.False(t, r.Has("source"))

	r = Read(domain.NewIntent("setChannelVerticalScale"), domain.OpSetChannelVerticalScale)
	assert.Zero(t, r.Int("channel"))
	assert.Empty(t, r.Enum("units"))
	var verr *ValidationError
	require.True(t, errors.As(r.Err(), &verr))
	assert.Equal(t, 3, verr.Expected)
	assert.Equal(t, 0, verr.Got)
}
