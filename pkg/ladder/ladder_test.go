package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decade = MustNew(0.1, 0.2, 0.5, 1, 2, 5, 10)

func TestNew_RejectsInvalidLadders(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"empty", nil},
		{"zero", []float64{0, 1}},
		{"negative", []float64{-1, 1}},
		{"not increasing", []float64{1, 2, 2}},
		{"decreasing", []float64{5, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.values...)
			assert.Error(t, err)
		})
	}
	assert.Panics(t, func() { MustNew(2, 1) })
}

func TestLadder_Next(t *testing.T) {
	tests := []struct {
		current float64
		want    float64
		ok      bool
	}{
		{1, 2, true},
		{1.5, 2, true},
		{0.01, 0.1, true},
		{0.02 / 10 * 50, 0.2, true}, // float rendering of 0.1
		{5, 10, true},
		{10, 0, false},
		{20, 0, false},
	}
	for _, tt := range tests {
		got, ok := decade.Next(tt.current)
		assert.Equal(t, tt.ok, ok, "Next(%v)", tt.current)
		assert.Equal(t, tt.want, got, "Next(%v)", tt.current)
	}
}

func TestLadder_Prev(t *testing.T) {
	tests := []struct {
		current float64
		want    float64
		ok      bool
	}{
		{1, 0.5, true},
		{1.5, 1, true},
		{100, 10, true},
		{0.30000000000000004 - 0.1, 0.1, true}, // float rendering of 0.2
		{0.1, 0, false},
		{0.05, 0, false},
	}
	for _, tt := range tests {
		got, ok := decade.Prev(tt.current)
		assert.Equal(t, tt.ok, ok, "Prev(%v)", tt.current)
		assert.Equal(t, tt.want, got, "Prev(%v)", tt.current)
	}
}

func TestLadder_Step(t *testing.T) {
	up, ok := decade.Step(2, true)
	require.True(t, ok)
	assert.Equal(t, 5.0, up)

	down, ok := decade.Step(2, false)
	require.True(t, ok)
	assert.Equal(t, 1.0, down)
}

func TestLadder_Accessors(t *testing.T) {
	assert.Equal(t, 7, decade.Len())
	assert.Equal(t, 0.1, decade.Min())
	assert.Equal(t, 10.0, decade.Max())

	values := decade.Values()
	values[0] = 99
	assert.Equal(t, 0.1, decade.Min(), "Values must return a copy")
}
