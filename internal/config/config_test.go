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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Exports.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("EXPORT_TTL", "2m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Exports.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
internal:
  allowed_origins:
    - https://api.example.com
    - "*.example.com"
  allow_eval: false
  host_origin: https://host.example.com
playground:
  allowed_origins: []
  allow_eval: true
`), 0o644))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	internal := profiles["internal"]
	assert.Equal(t, []string{"https://api.example.com", "*.example.com"}, internal.AllowedOrigins)
	assert.Equal(t, "https://host.example.com", internal.HostOrigin)
	assert.True(t, profiles["playground"].AllowEval)
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestLoadProfilesMissingFile(t *testing.T) {
	_, err := LoadProfiles("/nonexistent/profiles.yaml")
	assert.Error(t, err)
}
