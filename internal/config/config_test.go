package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "pascal.toml", `
log_level = "debug"

[output]
format = "json"
color = false

[debug]
tokens = true

[watch]
debounce = "250ms"
patterns = ["*.pas", "*.pp"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
	assert.True(t, cfg.Debug.Tokens)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce.Duration)
	assert.Equal(t, []string{"*.pas", "*.pp"}, cfg.Watch.Patterns)
	// untouched keys keep their defaults
	assert.Equal(t, []string{".git", "node_modules"}, cfg.Watch.ExcludeDirs)
	assert.Equal(t, "pascal> ", cfg.Repl.Prompt)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pascal.yaml", `
output:
  format: yaml
watch:
  debounce: 2s
  exclude_dirs: [vendor]
repl:
  history_file: /tmp/hist
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce.Duration)
	assert.Equal(t, []string{"vendor"}, cfg.Watch.ExcludeDirs)
	assert.Equal(t, "/tmp/hist", cfg.Repl.HistoryFile)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"bad format", "c.toml", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad level", "c.toml", "log_level = \"loud\"\n", "log_level"},
		{"negative debounce", "c.yaml", "watch:\n  debounce: -1s\n", "watch.debounce"},
		{"bad duration", "c.toml", "[watch]\ndebounce = \"soon\"\n", "parsing"},
		{"unknown extension", "c.ini", "x=1\n", "unsupported config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadOrDefault(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestEmptyPatternsFallBack(t *testing.T) {
	cfg := Default()
	cfg.Watch.Patterns = nil
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"*.pas"}, cfg.Watch.Patterns)
}
