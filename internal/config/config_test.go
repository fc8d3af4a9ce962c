package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openrouter", c.Provider)
	assert.Equal(t, 0.0, c.Temperature)
	assert.Equal(t, 90, c.NarrativeTimeoutSec)
	assert.Equal(t, 1, c.RetryMaxAttempts, "narrative calls are single-shot unless retries are configured")
	assert.False(t, c.NarrativeFallback)
	assert.Equal(t, ":8000", c.ServerAddr)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "stderr", c.Logging.Output)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DSVALIDATE_MODEL", "openai/gpt-4o-mini")
	t.Setenv("DSVALIDATE_NARRATIVE_FALLBACK", "true")
	t.Setenv("DSVALIDATE_LOGGING_LEVEL", "debug")
	t.Setenv("OPENROUTER_API_KEY", "sk-from-env")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", c.Model)
	assert.True(t, c.NarrativeFallback)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "sk-from-env", c.APIKey)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "")
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	c, err := Load("")
	require.NoError(t, err)
	c.Provider = "ollama"
	c.MaxUploadMB = 8
	c.Logging.Format = "json"
	require.NoError(t, Save(c, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", got.Provider)
	assert.Equal(t, 8, got.MaxUploadMB)
	assert.Equal(t, "json", got.Logging.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
