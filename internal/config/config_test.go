package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o-mini
  timeout: 90s
store:
  database_path: /tmp/test-sales.db
server:
  addr: ":9090"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "/tmp/test-sales.db", cfg.Store.DatabasePath)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	d, err := cfg.LLMTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a mapping"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("SALESIQ_DB", "/var/lib/salesiq/sales.db")
	t.Setenv("SALESIQ_ADDR", ":7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.LLM.APIKey)
	assert.Equal(t, "/var/lib/salesiq/sales.db", cfg.Store.DatabasePath)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLLMAPIKeyWinsOverGoogle(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("LLM_API_KEY", "neutral-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "neutral-key", cfg.LLM.APIKey)
}

func TestLLMTimeout(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.LLMTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d, "no timeout by default: a provider hang stalls the request")

	cfg.LLM.Timeout = "not-a-duration"
	_, err = cfg.LLMTimeout()
	assert.Error(t, err)
}
