package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	os.Setenv("HTTPSIG_TEST_VAR", "replaced")
	defer os.Unsetenv("HTTPSIG_TEST_VAR")

	assert.Equal(t, "replaced", SubstituteEnvVars("${HTTPSIG_TEST_VAR}"))
	assert.Equal(t, "fallback", SubstituteEnvVars("${HTTPSIG_UNSET_VAR:fallback}"))
	assert.Equal(t, "", SubstituteEnvVars("${HTTPSIG_UNSET_VAR}"))
	assert.Equal(t, "plain text", SubstituteEnvVars("plain text"))
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	os.Setenv("HTTPSIG_TEST_ALG", "ed25519")
	defer os.Unsetenv("HTTPSIG_TEST_ALG")

	cfg := &Config{
		Profiles: map[string]SigningProfile{
			"default": {Algorithm: "${HTTPSIG_TEST_ALG}"},
		},
		Logging: &LoggingConfig{Level: "${HTTPSIG_UNSET_VAR:info}"},
	}

	SubstituteEnvVarsInConfig(cfg)
	assert.Equal(t, "ed25519", cfg.Profiles["default"].Algorithm)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestGetEnvironment(t *testing.T) {
	os.Unsetenv("HTTPSIG_ENV")
	os.Unsetenv("ENVIRONMENT")
	assert.Equal(t, "development", GetEnvironment())

	os.Setenv("HTTPSIG_ENV", "Production")
	defer os.Unsetenv("HTTPSIG_ENV")
	assert.Equal(t, "production", GetEnvironment())
	assert.True(t, IsProduction())
}
