// Package config loads the relay configuration from YAML and OLLIE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmwilson/ollie/internal/logging"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Device channel kinds.
const (
	KindUSBTMC     = "usbtmc"
	KindTCP        = "tcp"
	KindSerial     = "serial"
	KindPerCommand = "percommand"
)

// EnvPrefix prefixes every environment override, e.g. OLLIE_DEVICE_DIALECT.
const EnvPrefix = "OLLIE_"

// Config is the complete relay configuration.
type Config struct {
	Device DeviceConfig `mapstructure:"device" yaml:"device"`
	MQTT   MQTTConfig   `mapstructure:"mqtt" yaml:"mqtt"`
	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis"`
	HTTP   HTTPConfig   `mapstructure:"http" yaml:"http"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DeviceConfig selects the dialect and how to reach the instrument.
// An empty Kind means percommand for keysight-legacy and usbtmc otherwise.
type DeviceConfig struct {
	Dialect string `mapstructure:"dialect" yaml:"dialect"`
	Kind    string `mapstructure:"kind" yaml:"kind"`
	Path    string `mapstructure:"path" yaml:"path"`
	Address string `mapstructure:"address" yaml:"address"`
	Baud    int    `mapstructure:"baud" yaml:"baud"`
}

// MQTTConfig configures the Hermes transport. An empty Broker disables it.
type MQTTConfig struct {
	Broker    string `mapstructure:"broker" yaml:"broker"`
	ClientID  string `mapstructure:"client_id" yaml:"client_id"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// RedisConfig configures the Redis transport and device lease.
// An empty Address disables both.
type RedisConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	LeaseTTL time.Duration `mapstructure:"lease_ttl" yaml:"lease_ttl"`
}

// HTTPConfig configures the JSON API. An empty Listen disables it.
type HTTPConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when no file or variable overrides it.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Dialect: string(domain.DialectKeysight),
			Path:    "/dev/usbtmc0",
			Baud:    9600,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "ollie",
		},
		Redis: RedisConfig{
			Prefix:   "ollie:",
			LeaseTTL: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envKeys lists every overridable key in dotted form.
var envKeys = []string{
	"device.dialect", "device.kind", "device.path", "device.address", "device.baud",
	"mqtt.broker", "mqtt.client_id", "mqtt.namespace",
	"redis.address", "redis.password", "redis.db", "redis.prefix", "redis.lease_ttl",
	"http.listen",
	"log.level", "log.format",
}

// EnvName returns the environment variable overriding a dotted key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads path (if non-empty), applies environment overrides and validates
// the result. A missing file is an error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if err := decode(envOverrides(os.LookupEnv), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment override: %w", err)
	}

	return cfg, cfg.Validate()
}

func envOverrides(lookup func(string) (string, bool)) map[string]any {
	out := map[string]any{}
	for _, key := range envKeys {
		v, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		section, field, _ := strings.Cut(key, ".")
		m, _ := out[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			out[section] = m
		}
		m[field] = v
	}
	return out
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Dialect returns the parsed device dialect.
func (c Config) Dialect() domain.Dialect {
	d, _ := domain.ParseDialect(c.Device.Dialect)
	return d
}

// DeviceKind resolves the device channel kind, applying the dialect default.
func (c Config) DeviceKind() string {
	if c.Device.Kind != "" {
		return strings.ToLower(c.Device.Kind)
	}
	if c.Dialect() == domain.DialectKeysightLegacy {
		return KindPerCommand
	}
	return KindUSBTMC
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := domain.ParseDialect(c.Device.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("device.dialect: %w", err))
	}
	switch c.DeviceKind() {
	case KindUSBTMC, KindPerCommand:
		if c.Device.Path == "" {
			errs = append(errs, errors.New("device.path is required"))
		}
	case KindSerial:
		if c.Device.Path == "" {
			errs = append(errs, errors.New("device.path is required"))
		}
		if c.Device.Baud <= 0 {
			errs = append(errs, fmt.Errorf("device.baud must be positive, got %d", c.Device.Baud))
		}
	case KindTCP:
		if c.Device.Address == "" {
			errs = append(errs, errors.New("device.address is required for tcp devices"))
		}
	default:
		errs = append(errs, fmt.Errorf("device.kind: unknown kind %q", c.Device.Kind))
	}

	if c.Redis.Address != "" && c.Redis.LeaseTTL <= 0 {
		errs = append(errs, fmt.Errorf("redis.lease_ttl must be positive, got %s", c.Redis.LeaseTTL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", f))
	}

	return errors.Join(errs...)
}
