package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("AOC_DEBUG enables debug mode", func(t *testing.T) {
		t.Setenv("AOC_DEBUG", "1")
		t.Setenv("AOC_LOG_LEVEL", "")
		t.Setenv("AOC_LOG_JSON", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("AOC_DEBUG false disables a file setting", func(t *testing.T) {
		t.Setenv("AOC_DEBUG", "false")

		cfg := DefaultConfig()
		cfg.Logging.DebugMode = true
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("AOC_DEBUG accepts on/yes", func(t *testing.T) {
		for _, v := range []string{"on", "YES", "true"} {
			t.Setenv("AOC_DEBUG", v)
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			assert.True(t, cfg.Logging.DebugMode, v)
		}
	})

	t.Run("AOC_LOG_LEVEL is normalized", func(t *testing.T) {
		t.Setenv("AOC_DEBUG", "")
		t.Setenv("AOC_LOG_LEVEL", " DEBUG ")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("AOC_LOG_JSON", func(t *testing.T) {
		t.Setenv("AOC_LOG_JSON", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.JSONFormat)
	})

	t.Run("empty values leave config untouched", func(t *testing.T) {
		t.Setenv("AOC_DEBUG", "")
		t.Setenv("AOC_LOG_LEVEL", "")
		t.Setenv("AOC_LOG_JSON", "")

		cfg := DefaultConfig()
		cfg.Logging.DebugMode = true
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
		assert.Equal(t, "info", cfg.Logging.Level)
	})
}
