package devicetest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmwilson/ollie/pkg/device/devicetest"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DeviceChannel = (*devicetest.Recorder)(nil)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := devicetest.NewRecorder().Respond(":TIMEBASE:SCALE?", "1", "2")

	require.NoError(t, rec.Write(ctx, ":RUN"))
	first, err := rec.Query(ctx, ":TIMEBASE:SCALE?")
	require.NoError(t, err)
	second, err := rec.Query(ctx, ":TIMEBASE:SCALE?")
	require.NoError(t, err)
	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)

	_, err = rec.Query(ctx, ":TIMEBASE:SCALE?")
	assert.Error(t, err, "scripted responses are consumed")

	_, err = rec.Query(ctx, ":RUN")
	assert.Error(t, err, "queries must end in '?'")

	assert.Equal(t, []string{":RUN"}, rec.Writes())
	assert.Len(t, rec.Queries(), 3)
	assert.Equal(t, []string{":RUN", ":TIMEBASE:SCALE?", ":TIMEBASE:SCALE?", ":TIMEBASE:SCALE?"}, rec.Transcript())

	rec.Reset()
	assert.Empty(t, rec.Transcript())
}

func TestRecorder_FailAfter(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("cable pulled")
	rec := devicetest.NewRecorder().RespondAll("0.5").FailAfter(1, boom)

	require.NoError(t, rec.Write(ctx, ":CHANNEL1:UNITS VOLT"))
	assert.ErrorIs(t, rec.Write(ctx, ":CHANNEL1:SCALE 2"), boom)
	assert.Equal(t, []string{":CHANNEL1:UNITS VOLT"}, rec.Writes())

	require.NoError(t, rec.Close())
	assert.True(t, rec.Closed())
	assert.ErrorIs(t, rec.Write(ctx, ":RUN"), devicetest.ErrClosed)
}
