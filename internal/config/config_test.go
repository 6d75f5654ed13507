package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 3, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Positive(t, cfg.Order.TxTimeout)
	assert.Positive(t, cfg.Auth.TokenTTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ORDER_MAX_RETRY_ATTEMPTS", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ORDER_TX_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
