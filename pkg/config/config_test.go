package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 4096, c.Query.MaxTemplates)
	assert.Equal(t, 256, c.Query.MaxPatternLength)
	assert.False(t, c.Query.Dedupe)
	assert.Equal(t, "quit", c.CLI.QuitWord)
	assert.Zero(t, c.Dict.MaxWords)
	assert.Zero(t, c.Server.RateLimit)
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[server]
rate_limit = 2.5
burst = 4

[dict]
max_words = 1000
strict = true

[query]
dedupe = true
cache_size = 0

[cli]
quit_word = "exit"
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, c.Server.RateLimit)
	assert.Equal(t, 4, c.Server.Burst)
	assert.Equal(t, 1000, c.Dict.MaxWords)
	assert.True(t, c.Dict.Strict)
	assert.True(t, c.Query.Dedupe)
	assert.Zero(t, c.Query.CacheSize)
	assert.Equal(t, "exit", c.CLI.QuitWord)
	// untouched keys keep defaults
	assert.Equal(t, 4096, c.Query.MaxTemplates)
	assert.Equal(t, 10000, c.Dict.ChunkSize)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
query:
  dedupe: true
  max_templates: 64
metrics:
  enabled: true
  addr: ":9000"
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, c.Query.Dedupe)
	assert.Equal(t, 64, c.Query.MaxTemplates)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, ":9000", c.Metrics.Addr)
	assert.Equal(t, "quit", c.CLI.QuitWord)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[server]
rate_limit = "fast"
burst = 8

[query]
dedupe = true
max_pattern_length = "long"
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, c.Server.Burst)
	assert.Zero(t, c.Server.RateLimit)
	assert.True(t, c.Query.Dedupe)
	assert.Equal(t, 256, c.Query.MaxPatternLength)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := writeConfig(t, "config.toml", "[server\nburst = = 3")
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	require.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestSaveConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	c := DefaultConfig()
	c.Query.Dedupe = true
	c.CLI.DefaultLimit = 12
	require.NoError(t, SaveConfig(c, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_limit: 12")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadConfigWithPriority(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	custom := writeConfig(t, "custom.toml", "[cli]\ndefault_limit = 5\n")
	c, path, err := LoadConfigWithPriority(custom)
	require.NoError(t, err)
	assert.Equal(t, custom, path)
	assert.Equal(t, 5, c.CLI.DefaultLimit)

	c, path, err = LoadConfigWithPriority(filepath.Join(home, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "wordmatch", "config.toml"), path)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)
}
