package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aocrun/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	path := Path(root)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("AOC_DEBUG", "")
	t.Setenv("AOC_LOG_LEVEL", "")
	t.Setenv("AOC_LOG_JSON", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesFile(t *testing.T) {
	t.Setenv("AOC_DEBUG", "")
	t.Setenv("AOC_LOG_LEVEL", "")
	t.Setenv("AOC_LOG_JSON", "")

	path := writeConfig(t, `
logging:
  debug_mode: true
  level: debug
  categories:
    tactile: false
execution:
  inherit_environment: false
  allowed_env_vars: [PATH]
  env:
    LC_ALL: C
    CC: gcc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.IsCategoryEnabled("tactile"))
	assert.True(t, cfg.Logging.IsCategoryEnabled("build"))
	assert.False(t, cfg.Execution.InheritEnvironment)
	assert.Equal(t, []string{"PATH"}, cfg.Execution.AllowedEnvVars)
	assert.Equal(t, []string{"CC=gcc", "LC_ALL=C"}, cfg.Execution.EnvList())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("AOC_DEBUG", "")
	t.Setenv("AOC_LOG_LEVEL", "")

	cfg, err := Load(writeConfig(t, "logging:\n  json_format: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Logging.JSONFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Execution.InheritEnvironment)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "logging: [unterminated"))
	require.Error(t, err)
	assert.Equal(t, errors.ConfigInvalid, errors.CodeOf(err))
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("AOC_LOG_LEVEL", "")
	_, err := Load(writeConfig(t, "logging:\n  level: loud\n"))
	require.Error(t, err)
	assert.Equal(t, errors.ConfigInvalid, errors.CodeOf(err))
}

func TestLoggingConfigDisabledWithoutDebugMode(t *testing.T) {
	c := LoggingConfig{Categories: map[string]bool{"build": true}}
	assert.False(t, c.IsCategoryEnabled("build"))
}
