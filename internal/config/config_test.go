package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "loragw", cfg.App.Name)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, 500*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, 100, cfg.Gateway.MaxFrames)
	assert.Equal(t, 200, cfg.Gateway.MaxLogs)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.API.Auth.Enabled)
	assert.True(t, cfg.API.CORS)
	assert.False(t, cfg.Webhook.Enabled)
	assert.Equal(t, []string{"remote_ascii"}, cfg.Webhook.Kinds)
	assert.Equal(t, 5*time.Second, cfg.Webhook.Timeout)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loragw.yaml")
	content := `
serial:
  device: /dev/ttyACM0
  readTimeout: 1s
gateway:
  maxFrames: 10
  commandRate: 0.5
redis:
  enabled: true
  addr: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LORAGW_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Device)
	assert.Equal(t, time.Second, cfg.Serial.ReadTimeout)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, 10, cfg.Gateway.MaxFrames)
	assert.InDelta(t, 0.5, cfg.Gateway.CommandRate, 1e-9)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial:\n  device: COM3\n"), 0o600))
	t.Setenv("LORAGW_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "COM3", cfg.Serial.Device)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Serial:  SerialConfig{Device: "/dev/ttyUSB0", Baud: 38400},
		Gateway: GatewayConfig{MaxFrames: 1, MaxLogs: 1},
	}
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Serial.Device = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Serial.Baud = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Gateway.MaxLogs = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.API.Auth.Enabled = true
	assert.Error(t, bad.Validate())
	bad.API.Auth.APIKeys = []string{"k1"}
	assert.NoError(t, bad.Validate())

	bad = *cfg
	bad.Webhook.Enabled = true
	assert.Error(t, bad.Validate())
}
