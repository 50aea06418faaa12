// Package cli wires configuration into a running relay for the ollie command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmwilson/ollie"
	"github.com/jmwilson/ollie/internal/config"
	"github.com/jmwilson/ollie/internal/logging"
	redisAdapter "github.com/jmwilson/ollie/pkg/adapters/redis"
	"github.com/jmwilson/ollie/pkg/device"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/redis/go-redis/v9"
)

// NewLogger builds the application logger from the log section.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "json" {
		return logging.NewJSON(level), nil
	}
	return logging.New(level), nil
}

// OpenChannel opens the device channel described by cfg.
func OpenChannel(ctx context.Context, cfg config.Config) (ports.DeviceChannel, error) {
	var (
		line *device.Line
		err  error
	)
	switch cfg.DeviceKind() {
	case config.KindPerCommand:
		return device.PerCommandFile(cfg.Device.Path), nil
	case config.KindUSBTMC:
		line, err = device.OpenUSBTMC(cfg.Device.Path)
	case config.KindTCP:
		line, err = device.DialTCP(ctx, cfg.Device.Address)
	case config.KindSerial:
		line, err = device.OpenSerial(cfg.Device.Path, cfg.Device.Baud)
	default:
		return nil, fmt.Errorf("unknown device kind %q", cfg.Device.Kind)
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

// DeviceAddress names the configured instrument: its address for tcp devices,
// its path otherwise.
func DeviceAddress(cfg config.Config) string {
	if cfg.DeviceKind() == config.KindTCP {
		return cfg.Device.Address
	}
	return cfg.Device.Path
}

// NewRedisClient returns a client for the redis section, or nil when it has no address.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Instrument is an opened instrument bound to a relay, optionally under a
// Redis device lease.
type Instrument struct {
	*ollie.Relay
	Redis *redis.Client

	// Lost is closed if the device lease could not be renewed. Nil without a lease.
	Lost <-chan struct{}

	release ports.UnlockFunc
	logger  *slog.Logger
}

// OpenInstrument takes the device lease (when Redis is configured), opens
// the device channel and binds the relay to it.
func OpenInstrument(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...ollie.Option) (*Instrument, error) {
	inst := &Instrument{Redis: NewRedisClient(cfg.Redis), logger: logger}

	if inst.Redis != nil {
		locker := redisAdapter.NewLocker(inst.Redis, cfg.Redis.Prefix)
		key := redisAdapter.DeviceKey(DeviceAddress(cfg))
		logger.Debug("acquiring device lease", "key", key, "ttl", cfg.Redis.LeaseTTL)
		// Wait at most one lease period for a previous holder to expire.
		lockCtx, cancel := context.WithTimeout(ctx, cfg.Redis.LeaseTTL)
		release, lost, err := locker.Hold(lockCtx, key, cfg.Redis.LeaseTTL)
		cancel()
		if err != nil {
			inst.Redis.Close()
			return nil, fmt.Errorf("device %s is in use: %w", DeviceAddress(cfg), err)
		}
		inst.release, inst.Lost = release, lost
	}

	ch, err := OpenChannel(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, inst.closeLease())
	}

	opts = append([]ollie.Option{ollie.WithLogger(logger)}, opts...)
	relay, err := ollie.New(cfg.Dialect(), ch, opts...)
	if err != nil {
		return nil, errors.Join(err, ch.Close(), inst.closeLease())
	}
	inst.Relay = relay

	logger.Info("instrument ready", "dialect", cfg.Dialect(), "device", DeviceAddress(cfg), "kind", cfg.DeviceKind())
	return inst, nil
}

// Close stops the relay, closes the device and releases the lease.
func (i *Instrument) Close() error {
	var errs []error
	if i.Relay != nil {
		errs = append(errs, i.Relay.Close())
	}
	errs = append(errs, i.closeLease())
	return errors.Join(errs...)
}

func (i *Instrument) closeLease() error {
	var errs []error
	if i.release != nil {
		errs = append(errs, i.release(context.Background()))
		i.release = nil
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
		i.Redis = nil
	}
	return errors.Join(errs...)
}
