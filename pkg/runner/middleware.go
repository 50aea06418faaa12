package runner

import (
	"context"

	"github.com/jmwilson/ollie/pkg/domain"
)

// IntentInterceptor decides whether an intent may reach the instrument.
// It returns false to drop the intent; a dropped intent yields domain.Ignored.
type IntentInterceptor func(ctx context.Context, in domain.Intent) (bool, error)

// MultiInterceptor chains multiple interceptors. The first refusal or error wins.
func MultiInterceptor(interceptors ...IntentInterceptor) IntentInterceptor {
	return func(ctx context.Context, in domain.Intent) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, in)
			if err != nil {
				return false, err
			}
			if !allowed {
				return false, nil
			}
		}
		return true, nil
	}
}

// AutoApprove allows everything.
func AutoApprove() IntentInterceptor {
	return func(context.Context, domain.Intent) (bool, error) {
		return true, nil
	}
}

// SiteFilter only admits intents spoken at one of sites.
// Intents without a site are admitted. With no sites, everything is admitted.
func SiteFilter(sites ...string) IntentInterceptor {
	allowed := make(map[string]bool, len(sites))
	for _, s := range sites {
		allowed[s] = true
	}
	return func(_ context.Context, in domain.Intent) (bool, error) {
		if len(allowed) == 0 || in.Site == "" {
			return true, nil
		}
		return allowed[in.Site], nil
	}
}

// OperationFilter only admits intents whose name accepts returns true for.
// The dispatcher still ignores names it does not map.
func OperationFilter(accepts func(name string) bool) IntentInterceptor {
	return func(_ context.Context, in domain.Intent) (bool, error) {
		return accepts(in.Name), nil
	}
}
