package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Workflow.ElementTimeout)
	assert.Equal(t, time.Second, cfg.Workflow.Settle)
	assert.Equal(t, "ICLogin", cfg.Workflow.LoginMarker)
	assert.Equal(t, "RR", cfg.Workflow.OperatingRegion)
	assert.Equal(t, "20/03/2021", cfg.Workflow.FallbackAdmissionDate)
	assert.Equal(t, int64(1), cfg.Server.MaxConcurrentRuns)
	assert.False(t, cfg.Storage.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflow:
  settle: 250ms
  login_marker: Login.aspx
server:
  addr: ":9000"
`), 0o644))

	t.Setenv("ONBOARDING_SERVER_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Workflow.Settle)
	assert.Equal(t, "Login.aspx", cfg.Workflow.LoginMarker)
	assert.Equal(t, ":9100", cfg.Server.Addr, "environment must win over the file")
	assert.Equal(t, 10*time.Second, cfg.Workflow.ElementTimeout, "defaults must survive")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty entry url", func(c *Config) { c.Workflow.EntryURL = "" }, "workflow.entry_url"},
		{"zero timeout", func(c *Config) { c.Workflow.ElementTimeout = 0 }, "workflow.element_timeout"},
		{"negative settle", func(c *Config) { c.Workflow.Settle = -time.Second }, "workflow.settle"},
		{"no runs", func(c *Config) { c.Server.MaxConcurrentRuns = 0 }, "server.max_concurrent_runs"},
		{"no rate", func(c *Config) { c.CEP.RateLimit = 0 }, "cep.rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStorageEnabled(t *testing.T) {
	s := StorageConfig{Endpoint: "nyc3.digitaloceanspaces.com", Bucket: "b", Key: "k", Secret: "s"}
	assert.True(t, s.Enabled())
	s.Secret = ""
	assert.False(t, s.Enabled())
}

func TestLoad_LegacySpacesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: debug\n"), 0o644))

	t.Setenv("DO_SPACES_BUCKET", "onboarding-docs")
	t.Setenv("DO_SPACES_KEY", "legacy-key")
	t.Setenv("ONBOARDING_STORAGE_KEY", "new-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "onboarding-docs", cfg.Storage.Bucket)
	assert.Equal(t, "new-key", cfg.Storage.Key, "prefixed name wins")
}
