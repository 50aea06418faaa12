package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for cross-process ownership of an instrument.
// It allows several relay processes on one host or network to never drive the same device.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (e.g., device path).
	// It blocks until the lock is acquired, the context is canceled, or the TTL expires (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
