package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ollie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.DialectKeysight, cfg.Dialect())
	assert.Equal(t, KindUSBTMC, cfg.DeviceKind())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
device:
  dialect: rigol
  kind: tcp
  address: 192.168.1.40:5555
mqtt:
  namespace: jmwilson
redis:
  address: localhost:6379
  lease_ttl: 10s
http:
  listen: ":8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DialectRigol, cfg.Dialect())
	assert.Equal(t, KindTCP, cfg.DeviceKind())
	assert.Equal(t, "192.168.1.40:5555", cfg.Device.Address)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker, "unset keys keep their default")
	assert.Equal(t, "jmwilson", cfg.MQTT.Namespace)
	assert.Equal(t, 10*time.Second, cfg.Redis.LeaseTTL)
	assert.Equal(t, ":8080", cfg.HTTP.Listen)
}

func TestLoad_Environment(t *testing.T) {
	path := writeFile(t, "device:\n  dialect: rigol\n")
	t.Setenv("OLLIE_DEVICE_DIALECT", "keysight-legacy")
	t.Setenv("OLLIE_DEVICE_BAUD", "115200")
	t.Setenv("OLLIE_REDIS_DB", "3")
	t.Setenv("OLLIE_REDIS_LEASE_TTL", "1m")
	t.Setenv("OLLIE_MQTT_BROKER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DialectKeysightLegacy, cfg.Dialect())
	assert.Equal(t, KindPerCommand, cfg.DeviceKind())
	assert.Equal(t, 115200, cfg.Device.Baud)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Redis.LeaseTTL)
	assert.Empty(t, cfg.MQTT.Broker, "an empty variable disables the transport")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeFile(t, "device:\n  dialekt: rigol\n"))
		assert.ErrorContains(t, err, "dialekt")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "device: [\n"))
		assert.Error(t, err)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := Load(writeFile(t, "device:\n  dialect: tektronix\n"))
		assert.ErrorIs(t, err, domain.ErrUnknownDialect)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"tcp without address", func(c *Config) { c.Device.Kind = KindTCP }, "device.address"},
		{"serial without baud", func(c *Config) { c.Device.Kind = KindSerial; c.Device.Baud = 0 }, "device.baud"},
		{"unknown kind", func(c *Config) { c.Device.Kind = "gpib" }, "device.kind"},
		{"usbtmc without path", func(c *Config) { c.Device.Path = "" }, "device.path"},
		{"lease without ttl", func(c *Config) { c.Redis.Address = "localhost:6379"; c.Redis.LeaseTTL = 0 }, "lease_ttl"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "OLLIE_MQTT_CLIENT_ID", EnvName("mqtt.client_id"))
}
