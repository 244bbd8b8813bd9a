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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8, cfg.ClientBuffer)
}

func TestLoad_EnvironmentBeatsDotenv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte(
		"YAHTZEE_LOG_LEVEL=debug\nYAHTZEE_SHUTDOWN_TIMEOUT=3s\n",
	), 0o600))
	t.Setenv("YAHTZEE_LOG_LEVEL", "error")
	// Registered so the value godotenv writes is cleaned up after the test.
	t.Setenv("YAHTZEE_SHUTDOWN_TIMEOUT", "")
	require.NoError(t, os.Unsetenv("YAHTZEE_SHUTDOWN_TIMEOUT"))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("YAHTZEE_CLIENT_BUFFER", "0")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("YAHTZEE_CLIENT_BUFFER", "4")
	t.Setenv("YAHTZEE_SHUTDOWN_TIMEOUT", "soon")
	_, err = Load(missing)
	assert.Error(t, err)
}
