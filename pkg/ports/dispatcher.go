package ports

import (
	"context"

	"github.com/jmwilson/ollie/pkg/domain"
)

// IntentDispatcher maps an intent to one operation and applies it.
// An intent with no mapped operation yields domain.Ignored and no error.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, in domain.Intent) (domain.Outcome, error)
}

// IntentSubmitter is the entry point transports use to hand over intents.
// Submit blocks until the intent has been fully applied or has failed.
type IntentSubmitter interface {
	Submit(ctx context.Context, in domain.Intent) (domain.Outcome, error)
}
