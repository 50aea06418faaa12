package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]domain.Outcome{"o": domain.BoundaryReached})
	require.NoError(t, err)
	assert.JSONEq(t, `{"o": "boundary_reached"}`, string(data))

	var got map[string]domain.Outcome
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, domain.BoundaryReached, got["o"])

	var o domain.Outcome
	assert.Error(t, o.UnmarshalText([]byte("exploded")))
}

func TestParseDialect(t *testing.T) {
	d, err := domain.ParseDialect(" Rigol ")
	require.NoError(t, err)
	assert.Equal(t, domain.DialectRigol, d)

	_, err = domain.ParseDialect("tektronix")
	assert.ErrorIs(t, err, domain.ErrUnknownDialect)
}

func TestCapabilities_Of(t *testing.T) {
	caps := domain.Capabilities{domain.OpRunCapture: domain.Direct}
	assert.Equal(t, domain.Direct, caps.Of(domain.OpRunCapture))
	assert.Equal(t, domain.Unsupported, caps.Of(domain.OpSaveImage))
	assert.Equal(t, []domain.Operation{domain.OpRunCapture}, caps.Operations())
}

func TestOperations_Unique(t *testing.T) {
	seen := map[domain.Operation]bool{}
	for _, op := range domain.Operations() {
		assert.False(t, seen[op], "duplicate %s", op)
		seen[op] = true
	}
	assert.Len(t, seen, 27)
}

func TestUnsupportedOperationError(t *testing.T) {
	err := error(&domain.UnsupportedOperationError{Operation: domain.OpSaveImage, Dialect: domain.DialectRigol})
	assert.Equal(t, "operation saveImage is not supported by the rigol dialect", err.Error())

	var uerr *domain.UnsupportedOperationError
	assert.True(t, errors.As(err, &uerr))
}

func TestMultiHooks(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnIntentReceived: func(context.Context, domain.Intent) { calls = append(calls, "first received") },
	}
	second := domain.LifecycleHooks{
		OnIntentReceived:   func(context.Context, domain.Intent) { calls = append(calls, "second received") },
		OnIntentDispatched: func(context.Context, *domain.DispatchEvent) { calls = append(calls, "second dispatched") },
	}

	hooks := domain.MultiHooks(first, second)
	hooks.OnIntentReceived(context.Background(), domain.NewIntent("runCapture"))
	hooks.OnIntentDispatched(context.Background(), &domain.DispatchEvent{Intent: "runCapture"})

	assert.Equal(t, []string{"first received", "second received", "second dispatched"}, calls)
}

func TestSlot_String(t *testing.T) {
	assert.Equal(t, `units="volts"`, domain.EnumSlot("units", "volts").String())
	assert.Equal(t, "scale=0.5", domain.RealSlot("scale", 0.5).String())
	assert.Equal(t, "channel=2", domain.IntSlot("channel", 2).String())
	assert.Equal(t, "real", domain.SlotReal.String())
}
