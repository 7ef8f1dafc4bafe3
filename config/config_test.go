package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `environment: staging

profiles:
  default:
    components:
      - "@method"
      - "@target-uri"
      - content-digest
    algorithm: ed25519
    expires: 5m
  webhook-inbound:
    components:
      - "@method"
      - "@path"
      - content-digest
    algorithm: rsa-v1_5-sha256
    keyid: webhook-key-1
    expires: 1m

logging:
  level: debug
  format: json

metrics:
  enabled: true
`

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Contains(t, cfg.Profiles, "webhook-inbound")

	profile, err := cfg.Profile("webhook-inbound")
	require.NoError(t, err)
	assert.Equal(t, "rsa-v1_5-sha256", profile.Algorithm)
	assert.Equal(t, "webhook-key-1", profile.KeyID)
	assert.Equal(t, 1*time.Minute, profile.Expires)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr, "setDefaults should fill in the metrics address")
}

func TestConfig_ProfileFallsBackToDefault(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	profile, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "ed25519", profile.Algorithm)
}

func TestConfig_ProfileNotFound(t *testing.T) {
	cfg := &Config{Profiles: map[string]SigningProfile{"default": {Algorithm: "ed25519"}}}

	_, err := cfg.Profile("nonexistent")
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roundtrip.yaml")

	cfg := &Config{
		Environment: "production",
		Profiles: map[string]SigningProfile{
			"default": {Components: []string{"@method"}, Algorithm: "ed25519", Expires: 2 * time.Minute},
		},
	}

	require.NoError(t, SaveToFile(cfg, configPath))

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "production", loaded.Environment)
	assert.Equal(t, cfg.Profiles["default"].Algorithm, loaded.Profiles["default"].Algorithm)
}
