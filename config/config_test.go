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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err) // explicit path must exist

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.Provider.Name)
	assert.Equal(t, 3, cfg.Provider.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Provider.BaseDelay)
	assert.Equal(t, 10, cfg.Agent.MaxSteps)
	assert.Equal(t, 8000, cfg.Agent.ObservationLimit)
	assert.True(t, cfg.Tools.Search.Enabled)
	assert.Equal(t, []string{"duckduckgo"}, cfg.Tools.Search.Backends)
	assert.Equal(t, 15*time.Second, cfg.Tools.Fetch.Timeout)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scout.yaml")
	body := `
provider:
  name: anthropic
  model: claude-3-5-haiku
  max_attempts: 5
agent:
  max_steps: 4
server:
  addr: ":9090"
  auth_token: hunter2
store:
  enabled: true
  threshold: 0.75
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider.Name)
	assert.Equal(t, "claude-3-5-haiku", cfg.Provider.Model)
	assert.Equal(t, 5, cfg.Provider.MaxAttempts)
	assert.Equal(t, 4, cfg.Agent.MaxSteps)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "hunter2", cfg.Server.AuthToken)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, 0.75, cfg.Store.Threshold)

	// Untouched sections keep their defaults.
	assert.Equal(t, 1024, cfg.Provider.MaxTokens)
	assert.True(t, cfg.Tools.Fetch.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SCOUT_PROVIDER_API_KEY", "sk-test-123")
	t.Setenv("SCOUT_AGENT_MAX_STEPS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.Provider.APIKey)
	assert.Equal(t, 7, cfg.Agent.MaxSteps)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
