package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "booknest", cfg.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 517, cfg.ImageSize)
	assert.EqualValues(t, 40_000_000, cfg.ImageMaxPixels)
	assert.Equal(t, "http://localhost:9000/booknest", cfg.MinioPublicURL)
	assert.Equal(t, 10, cfg.AuthRateLimitPerMin)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("port: \"9090\"\ndbName: books\njwtAccessExpiry: 30m\ngoogleClientIDs: a.apps, b.apps\nminioUseSSL: true\nminioEndpoint: s3.example.com\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_NAME", "from_env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, []string{"a.apps", "b.apps"}, cfg.GoogleAudiences())
	assert.Equal(t, "https://s3.example.com/booknest", cfg.MinioPublicURL)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{TimeZone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
