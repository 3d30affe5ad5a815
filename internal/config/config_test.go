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
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.LowCreditThreshold)
	assert.Equal(t, 7, cfg.UpcomingDays)
	assert.Equal(t, time.Hour, cfg.ExpirySweepInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "9090")
	t.Setenv("LOW_CREDIT_THRESHOLD", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.LowCreditThreshold)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 15*time.Minute, cfg.ExpirySweepInterval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "7000"
upcoming_days: 14
expiry_sweep_interval: 30m
email:
  from: studio@example.com
  smtp_host: mail.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, 14, cfg.UpcomingDays)
	assert.Equal(t, 30*time.Minute, cfg.ExpirySweepInterval)
	assert.Equal(t, "studio@example.com", cfg.Email.From)
	assert.Equal(t, "mail.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, "FitStudio", cfg.Email.FromName)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Run("non numeric threshold", func(t *testing.T) {
		t.Setenv("LOW_CREDIT_THRESHOLD", "two")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero threshold", func(t *testing.T) {
		t.Setenv("LOW_CREDIT_THRESHOLD", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "LOW_CREDIT_THRESHOLD")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}
