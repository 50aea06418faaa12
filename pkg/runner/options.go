package runner

import (
	"log/slog"

	"github.com/jmwilson/ollie/pkg/domain"
)

// DefaultQueueSize is the number of intents that may wait for the worker.
const DefaultQueueSize = 16

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks configures lifecycle callbacks invoked around every dispatch.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithInterceptor configures the admission policy. Defaults to AutoApprove.
func WithInterceptor(interceptor IntentInterceptor) Option {
	return func(r *Runner) {
		r.interceptor = interceptor
	}
}

// WithQueueSize sets how many submitted intents may wait for the worker.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}
