package scpi

import (
	"context"
	"fmt"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ladder"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/vocab"
)

// Stepper performs stepped scale adjustments for one dialect.
// Headers are command paths without arguments; channel headers are
// formatted with the channel number.
type Stepper struct {
	TimebaseScale string // e.g. ":TIMEBASE:SCALE"
	ChannelScale  string // e.g. ":CHANNEL%d:SCALE"
	ChannelProbe  string // e.g. ":CHANNEL%d:PROBE"

	Timebase ladder.Ladder
	Vertical ladder.Ladder
}

// StepTimebase reads the current time-per-division and writes the next ladder entry
// above it (up) or below it. Returns domain.BoundaryReached without writing when
// there is none.
func (s Stepper) StepTimebase(ctx context.Context, ch ports.DeviceChannel, up bool) (domain.Outcome, error) {
	// 1. Read back live state
	current, err := ReadFloat(ctx, ch, Query(s.TimebaseScale))
	if err != nil {
		return domain.Ignored, err
	}

	// 2. Search the ladder
	next, ok := s.Timebase.Step(current, up)
	if !ok {
		return domain.BoundaryReached, nil
	}

	// 3. Apply
	if err := ch.Write(ctx, Set(s.TimebaseScale, vocab.FormatNumber(next))); err != nil {
		return domain.Ignored, err
	}
	return domain.Applied, nil
}

// StepVertical reads a channel's scale and probe ratio, one query at a time,
// steps the per-division value scale/ratio along the ladder and writes
// ratio × entry back as the new scale.
func (s Stepper) StepVertical(ctx context.Context, ch ports.DeviceChannel, channel int, up bool) (domain.Outcome, error) {
	scaleHeader := fmt.Sprintf(s.ChannelScale, channel)
	probeHeader := fmt.Sprintf(s.ChannelProbe, channel)

	// 1. Read back scale, then probe ratio
	scale, err := ReadFloat(ctx, ch, Query(scaleHeader))
	if err != nil {
		return domain.Ignored, err
	}
	ratio, err := ReadFloat(ctx, ch, Query(probeHeader))
	if err != nil {
		return domain.Ignored, err
	}
	if ratio <= 0 {
		return domain.Ignored, &ResponseError{
			Query:    Query(probeHeader),
			Response: vocab.FormatNumber(ratio),
			Reason:   "probe ratio must be positive",
		}
	}

	// 2. Normalize and search
	next, ok := s.Vertical.Step(scale/ratio, up)
	if !ok {
		return domain.BoundaryReached, nil
	}

	// 3. Apply
	if err := ch.Write(ctx, Set(scaleHeader, vocab.FormatNumber(ratio*next))); err != nil {
		return domain.Ignored, err
	}
	return domain.Applied, nil
}
