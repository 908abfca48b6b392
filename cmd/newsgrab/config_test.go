package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "newsgrab/cmd/newsgrab"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "goquery", cfg.Reducer)
		assert.Equal(t, 1.0, cfg.RateLimitRPS)
		assert.NotEmpty(t, cfg.DBPath)
	})

	t.Run("reads settings from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
api_key: sk-or-v1-filekey
db_path: /tmp/test-news.db
reducer: trafilatura
rate_limit_rps: 0.5
concurrency: 2
models:
  - vendor/model-a:free
verbose: true
`), 0644))

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-or-v1-filekey", cfg.APIKey)
		assert.Equal(t, "/tmp/test-news.db", cfg.DBPath)
		assert.Equal(t, "trafilatura", cfg.Reducer)
		assert.Equal(t, 0.5, cfg.RateLimitRPS)
		assert.Equal(t, 2, cfg.Concurrency)
		assert.Equal(t, []string{"vendor/model-a:free"}, cfg.Models)
		assert.True(t, cfg.Verbose)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\ndb_path: /tmp/file.db\n"), 0644))

		t.Setenv("OPENROUTER_API_KEY", "sk-or-v1-envkey")
		t.Setenv("NEWSGRAB_DB", "/tmp/env.db")

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-or-v1-envkey", cfg.APIKey)
		assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	})

	t.Run("malformed YAML is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0644))

		_, err := main.LoadConfig(path)
		require.Error(t, err)
	})
}
