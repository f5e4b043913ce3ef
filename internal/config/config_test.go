package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8287", cfg.Port)
	assert.Equal(t, "inkwell", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "test", cfg.Env)
	assert.False(t, cfg.TracingOn)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "from-env", cfg.SessionSecret)
	assert.True(t, cfg.TracingOn)
}

func TestLoadConfig_ProductionRefusesDefaultSecret(t *testing.T) {
	resetViper(t)
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	// A real secret clears the check.
	resetViper(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "a-real-production-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
}
