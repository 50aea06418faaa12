// Package redis connects the relay to Redis: an intent source over pub/sub
// and a device lease so that one instrument is never driven by two processes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmwilson/ollie/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
	// ErrLockLost is returned when a held lease expired or was taken over.
	ErrLockLost = errors.New("distributed lock lost")
)

const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

const refreshScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client   *backend.Client
	prefix   string
	interval time.Duration
}

var _ ports.DistributedLocker = (*Locker)(nil)

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client:   client,
		prefix:   prefix,
		interval: 100 * time.Millisecond,
	}
}

// DeviceKey is the lock key for an instrument address.
func DeviceKey(address string) string {
	return "device:" + address
}

func (l *Locker) key(key string) string {
	return l.prefix + "lock:" + key
}

// owner identifies this process as the lock holder.
func owner() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s:%d:%d", host, os.Getpid(), time.Now().UnixNano())
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX,
// polling until it is free or ctx is done. The lock expires after ttl.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.key(key)
	val := owner()

	if err := l.acquire(ctx, lockKey, val, ttl); err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return l.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
	}, nil
}

// Hold acquires the lock like Lock and keeps extending it every ttl/3 until
// the returned UnlockFunc is called. lost is closed if the lease could not
// be extended.
func (l *Locker) Hold(ctx context.Context, key string, ttl time.Duration) (unlock ports.UnlockFunc, lost <-chan struct{}, err error) {
	lockKey := l.key(key)
	val := owner()

	if err := l.acquire(ctx, lockKey, val, ttl); err != nil {
		return nil, nil, err
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	lostCh := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n, err := l.client.Eval(context.Background(), refreshScript, []string{lockKey}, val, ttl.Milliseconds()).Int()
				if err != nil || n == 0 {
					close(lostCh)
					return
				}
			}
		}
	}()

	return func(ctx context.Context) error {
		close(stop)
		<-stopped
		return l.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
	}, lostCh, nil
}

func (l *Locker) acquire(ctx context.Context, lockKey, val string, ttl time.Duration) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrLockAcquire, err)
		}
		if success {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
