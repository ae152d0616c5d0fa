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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "relief_ledger", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "relief-credit-ledger", cfg.JWT.Issuer)

	assert.Equal(t, "ngo-admin", cfg.Program.AdminUsername)
	assert.Equal(t, int64(50), cfg.Program.DailyLimit)
	assert.Equal(t, 24*time.Hour, cfg.Program.DayLength)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  port: 9090
  mode: release
program:
  admin_username: relief-admin
  daily_limit: 5000
  day_length: 1h
log:
  level: debug
  pretty: true
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "relief-admin", cfg.Program.AdminUsername)
	assert.Equal(t, int64(5000), cfg.Program.DailyLimit)
	assert.Equal(t, time.Hour, cfg.Program.DayLength)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	// Untouched values fall back to defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RCL_PROGRAM_DAILY_LIMIT", "75")
	t.Setenv("RCL_DATABASE_HOST", "db.internal")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(75), cfg.Program.DailyLimit)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_RejectsInvalidProgram(t *testing.T) {
	t.Setenv("RCL_PROGRAM_DAILY_LIMIT", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily_limit")
}
