package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay's collectors.
type Metrics struct {
	Intents        *prometheus.CounterVec
	DeviceCommands *prometheus.CounterVec
	DeviceErrors   *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ollie_intents_total",
				Help: "Intents handled, by intent name and outcome",
			},
			[]string{"intent", "outcome"},
		),
		DeviceCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ollie_device_commands_total",
				Help: "Lines sent to the instrument, by kind (write or query)",
			},
			[]string{"kind"},
		),
		DeviceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ollie_device_errors_total",
				Help: "Failed device writes and queries, by kind",
			},
			[]string{"kind"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ollie_dispatch_duration_seconds",
				Help:    "Time to apply one intent, including device round trips",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"intent"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Intents, m.DeviceCommands, m.DeviceErrors, m.Duration)
	}
	return m
}

// OutcomeLabel is the outcome label value for a finished dispatch.
func OutcomeLabel(outcome domain.Outcome, err error) string {
	if err == nil {
		return outcome.String()
	}
	var unsupported *domain.UnsupportedOperationError
	if errors.As(err, &unsupported) {
		return "unsupported"
	}
	return "error"
}

// Hooks returns lifecycle hooks that log every dispatch and record it in m.
// Either argument may be nil.
func Hooks(logger *slog.Logger, m *Metrics) domain.LifecycleHooks {
	if logger == nil {
		logger = slog.Default()
	}
	return domain.LifecycleHooks{
		OnIntentReceived: func(ctx context.Context, in domain.Intent) {
			logger.Debug("intent received", "intent", in.Name, "slots", len(in.Slots), "session", in.SessionID)
		},
		OnIntentDispatched: func(ctx context.Context, e *domain.DispatchEvent) {
			if m != nil {
				m.Intents.WithLabelValues(e.Intent, OutcomeLabel(e.Outcome, e.Err)).Inc()
				m.Duration.WithLabelValues(e.Intent).Observe(e.Duration.Seconds())
			}
			if e.Err != nil {
				logger.Error("dispatch failed", "intent", e.Intent, "session", e.SessionID, "error", e.Err)
				return
			}
			logger.Info("intent dispatched", "intent", e.Intent, "outcome", e.Outcome, "duration", e.Duration)
		},
	}
}

// Instrument wraps ch so every write and query is counted in m.
func Instrument(ch ports.DeviceChannel, m *Metrics) ports.DeviceChannel {
	return &instrumented{ch: ch, m: m}
}

type instrumented struct {
	ch ports.DeviceChannel
	m  *Metrics
}

func (i *instrumented) Write(ctx context.Context, line string) error {
	i.m.DeviceCommands.WithLabelValues("write").Inc()
	err := i.ch.Write(ctx, line)
	if err != nil {
		i.m.DeviceErrors.WithLabelValues("write").Inc()
	}
	return err
}

func (i *instrumented) Query(ctx context.Context, line string) (string, error) {
	i.m.DeviceCommands.WithLabelValues("query").Inc()
	resp, err := i.ch.Query(ctx, line)
	if err != nil {
		i.m.DeviceErrors.WithLabelValues("query").Inc()
	}
	return resp, err
}

func (i *instrumented) Close() error { return i.ch.Close() }
