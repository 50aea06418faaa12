package ollie

import (
	"context"
	"log/slog"

	"github.com/jmwilson/ollie/pkg/backend"
	"github.com/jmwilson/ollie/pkg/dispatch"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/observability"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/runner"
)

// Relay is the high-level entry point for the ollie library.
// It binds one instrument to a driver, a dispatcher and the serial runner.
type Relay struct {
	channel    ports.DeviceChannel
	driver     ports.Driver
	dispatcher *dispatch.Dispatcher
	runner     *runner.Runner
	logger     *slog.Logger
}

type options struct {
	logger      *slog.Logger
	hooks       []domain.LifecycleHooks
	interceptor runner.IntentInterceptor
	metrics     *observability.Metrics
	queueSize   int
}

// Option defines a functional option for configuring the Relay.
type Option func(*options)

// WithLogger sets the structured logger used by the relay and its runner.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. It may be given more than once.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks)
	}
}

// WithInterceptor sets the admission policy for incoming intents.
func WithInterceptor(interceptor runner.IntentInterceptor) Option {
	return func(o *options) {
		o.interceptor = interceptor
	}
}

// WithMetrics counts dispatches and device traffic in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithQueueSize bounds how many intents may wait for the instrument.
func WithQueueSize(n int) Option {
	return func(o *options) {
		o.queueSize = n
	}
}

// New binds the driver for dialect to ch. The relay owns ch and closes it in Close.
func New(dialect domain.Dialect, ch ports.DeviceChannel, opts ...Option) (*Relay, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if o.metrics != nil {
		ch = observability.Instrument(ch, o.metrics)
	}
	driver, err := backend.New(dialect, ch)
	if err != nil {
		return nil, err
	}
	d := dispatch.New(driver)

	hooks := append([]domain.LifecycleHooks{observability.Hooks(o.logger, o.metrics)}, o.hooks...)
	runnerOpts := []runner.Option{
		runner.WithLogger(o.logger),
		runner.WithHooks(domain.MultiHooks(hooks...)),
	}
	if o.interceptor != nil {
		runnerOpts = append(runnerOpts, runner.WithInterceptor(o.interceptor))
	}
	if o.queueSize > 0 {
		runnerOpts = append(runnerOpts, runner.WithQueueSize(o.queueSize))
	}

	return &Relay{
		channel:    ch,
		driver:     driver,
		dispatcher: d,
		runner:     runner.New(d, runnerOpts...),
		logger:     o.logger,
	}, nil
}

// Dialect returns the bound dialect.
func (r *Relay) Dialect() domain.Dialect { return r.driver.Dialect() }

// Capabilities returns the bound dialect's capability column.
func (r *Relay) Capabilities() domain.Capabilities { return r.driver.Capabilities() }

// Dispatcher returns the intent-name table, e.g. to register extra names.
func (r *Relay) Dispatcher() *dispatch.Dispatcher { return r.dispatcher }

// Operations lists the intent names the relay maps.
func (r *Relay) Operations() []string { return r.dispatcher.Operations() }

// Run processes submitted intents until ctx is done or Close is called.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Debug("relay started", "dialect", r.Dialect())
	return r.runner.Run(ctx)
}

// Submit applies in on the instrument and waits for the outcome.
func (r *Relay) Submit(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	return r.runner.Submit(ctx, in)
}

// Close stops the runner, waits for the intent in flight to finish, then
// closes the device channel.
func (r *Relay) Close() error {
	r.runner.Close()
	r.runner.Wait()
	return r.channel.Close()
}
