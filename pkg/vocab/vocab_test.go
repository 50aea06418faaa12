package vocab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Lookup(t *testing.T) {
	tbl := NewTable("reference", map[string]string{
		"left":   "LEFT",
		"center": "CENTER",
	})

	got, err := tbl.Lookup("  Left ")
	require.NoError(t, err)
	assert.Equal(t, "LEFT", got)

	_, err = tbl.Lookup("middle")
	var uerr *UnknownValueError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "reference", uerr.Table)
	assert.Equal(t, "middle", uerr.Value)
	assert.Equal(t, []string{"center", "left"}, uerr.Allowed)
	assert.EqualError(t, err, `unknown reference "middle" (allowed: center, left)`)
}

func TestTable_NormalizesKeys(t *testing.T) {
	tbl := NewTable("source", map[string]string{"Channel  One": "CHANNEL1"})
	assert.Equal(t, []string{"channel one"}, tbl.Keys())

	got, err := tbl.Lookup("CHANNEL ONE")
	require.NoError(t, err)
	assert.Equal(t, "CHANNEL1", got)
}

func TestNewTable_PanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		NewTable("dup", map[string]int{"a b": 1, "A  B": 2})
	})
}

func TestUnits(t *testing.T) {
	s, err := Seconds(500, "microseconds")
	require.NoError(t, err)
	assert.InDelta(t, 500e-6, s, 1e-15)

	v, q, err := Vertical(200, "millivolts")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v, 1e-12)
	assert.Equal(t, Voltage, q)

	v, q, err = Vertical(2, "amps")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, Current, q)

	_, err = Seconds(1, "fortnights")
	var uerr *UnknownValueError
	assert.True(t, errors.As(err, &uerr))

	_, _, err = Vertical(1, "watts")
	assert.True(t, errors.As(err, &uerr))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{0.5, "0.5"},
		{0.1, "0.1"},
		{4, "4"},
		{-4, "-4"},
		{0, "0"},
		{500, "500"},
		{1e-5, "1E-05"},
		{1e-7, "1E-07"},
		{2e-3, "0.002"},
		{1e6, "1E+06"},
		{0.02 / 10, "0.002"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}
