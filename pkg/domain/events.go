package domain

import (
	"context"
	"time"
)

// DispatchEvent describes one intent passing through the runner.
type DispatchEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Intent    string        `json:"intent"`
	SessionID string        `json:"session_id,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for runner observability.
type LifecycleHooks struct {
	OnIntentReceived   func(context.Context, Intent)
	OnIntentDispatched func(context.Context, *DispatchEvent)
}

// MultiHooks runs every set of hooks in order.
func MultiHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnIntentReceived: func(ctx context.Context, in Intent) {
			for _, h := range hooks {
				if h.OnIntentReceived != nil {
					h.OnIntentReceived(ctx, in)
				}
			}
		},
		OnIntentDispatched: func(ctx context.Context, e *DispatchEvent) {
			for _, h := range hooks {
				if h.OnIntentDispatched != nil {
					h.OnIntentDispatched(ctx, e)
				}
			}
		},
	}
}
