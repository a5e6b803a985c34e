package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/weight_pals")
	t.Setenv("SECRET", "test-secret")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, defaultAppName, cfg.AppName)
	assert.Equal(t, 86400*time.Second, cfg.TokenTTL)
	assert.Equal(t, 24*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 8, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, ":7000", cfg.Address())
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/weight_pals")
	t.Setenv("SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvRedisURIFallback(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_URI", "redis://cache:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv(tokenTTLSecondsEnvVar, "60")
	t.Setenv(sweepIntervalEnvVar, "90s")
	t.Setenv(bcryptCostEnvVar, "4")
	t.Setenv("PORT", ":9000")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.TokenTTL)
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, ":9000", cfg.Address())
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv(sweepIntervalEnvVar, "soon")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "DATABASE_URL=postgres://file/db\nSECRET=from-file\nLOG_LEVEL=DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	// godotenv never overrides variables that are set, even to "".
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SECRET", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SECRET")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	require.NoError(t, err)
}

func TestFromEnvDatabaseOptionalInDev(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")

	t.Setenv("APP_ENV", "development")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
	assert.True(t, cfg.IsDev())

	t.Setenv("APP_ENV", "production")
	_, err = FromEnv()
	require.Error(t, err)
}
