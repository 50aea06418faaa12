package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
)

// Runner applies submitted intents one at a time through a dispatcher.
type Runner struct {
	dispatcher  ports.IntentDispatcher
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	interceptor IntentInterceptor
	queueSize   int

	queue    chan job
	done     chan struct{} // closed by Close
	stopped  chan struct{} // closed when Run has drained the queue
	stopOnce sync.Once

	mu      sync.Mutex
	closed  bool
	started bool
}

var _ ports.IntentSubmitter = (*Runner)(nil)

type job struct {
	ctx    context.Context
	intent domain.Intent
	reply  chan result
}

type result struct {
	outcome domain.Outcome
	err     error
}

// New creates a Runner for d. Call Run to start the worker.
func New(d ports.IntentDispatcher, opts ...Option) *Runner {
	r := &Runner{
		dispatcher:  d,
		logger:      slog.Default(),
		interceptor: AutoApprove(),
		queueSize:   DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan job, r.queueSize)
	r.done = make(chan struct{})
	r.stopped = make(chan struct{})
	return r
}

// Run processes intents until ctx is done or Close is called.
// Intents still queued when it returns fail with domain.ErrQueueClosed.
func (r *Runner) Run(ctx context.Context) error {
	defer r.stopOnce.Do(func() {
		r.drain()
		close(r.stopped)
	})

	r.mu.Lock()
	closed := r.closed
	r.started = true
	r.mu.Unlock()
	if closed {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return ctx.Err()
		case <-r.done:
			return nil
		case j := <-r.queue:
			outcome, err := r.apply(j.ctx, j.intent)
			j.reply <- result{outcome: outcome, err: err}
		}
	}
}

// Submit queues in and blocks until it has been applied, or ctx is done.
// It blocks until Run is started.
func (r *Runner) Submit(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	select {
	case <-r.done:
		return domain.Ignored, domain.ErrQueueClosed
	default:
	}

	reply := make(chan result, 1)
	select {
	case r.queue <- job{ctx: ctx, intent: in, reply: reply}:
	case <-r.done:
		return domain.Ignored, domain.ErrQueueClosed
	case <-ctx.Done():
		return domain.Ignored, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.outcome, res.err
	case <-ctx.Done():
		return domain.Ignored, ctx.Err()
	case <-r.stopped:
		select {
		case res := <-reply:
			return res.outcome, res.err
		default:
			return domain.Ignored, domain.ErrQueueClosed
		}
	}
}

// Close stops accepting intents. It is safe to call more than once.
// The intent being applied, if any, runs to completion; use Wait to block until it has.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.done)
	}
}

// Wait blocks until Run has returned and the queue is drained.
// It returns at once if Run has not started.
func (r *Runner) Wait() {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.stopped
	}
}

func (r *Runner) drain() {
	for {
		select {
		case j := <-r.queue:
			j.reply <- result{outcome: domain.Ignored, err: domain.ErrQueueClosed}
		default:
			return
		}
	}
}

func (r *Runner) apply(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ignored, err
	}
	if r.hooks.OnIntentReceived != nil {
		r.hooks.OnIntentReceived(ctx, in)
	}

	start := time.Now()
	outcome, err := r.dispatch(ctx, in)

	if r.hooks.OnIntentDispatched != nil {
		r.hooks.OnIntentDispatched(ctx, &domain.DispatchEvent{
			Timestamp: start,
			Intent:    in.Name,
			SessionID: in.SessionID,
			Outcome:   outcome,
			Duration:  time.Since(start),
			Err:       err,
		})
	} else if err != nil {
		r.logger.Error("dispatch failed", "intent", in.Name, "error", err)
	}
	return outcome, err
}

func (r *Runner) dispatch(ctx context.Context, in domain.Intent) (domain.Outcome, error) {
	// 1. Sanitize
	clean, err := SanitizeIntent(in)
	if err != nil {
		return domain.Ignored, err
	}

	// 2. Admit
	allowed, err := r.interceptor(ctx, clean)
	if err != nil {
		return domain.Ignored, err
	}
	if !allowed {
		r.logger.Debug("intent dropped by policy", "intent", clean.Name, "site", clean.Site)
		return domain.Ignored, nil
	}

	// 3. Dispatch
	return r.dispatcher.Dispatch(ctx, clean)
}
