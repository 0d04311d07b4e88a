// Package config loads the harness configuration from <repo>/.aoc/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"aocrun/internal/errors"
)

// Dir is the per-repository harness directory holding config and logs.
const Dir = ".aoc"

// FileName is the config file name inside Dir.
const FileName = "config.yaml"

// Config holds all harness configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Execution ExecutionConfig `yaml:"execution"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Execution: ExecutionConfig{
			InheritEnvironment: true,
			AllowedEnvVars:     []string{"PATH", "HOME", "USER", "LANG", "LC_ALL", "TMPDIR"},
		},
	}
}

// Path returns the config file location for a repository root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, Dir, FileName)
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, errors.Wrap(err, errors.ConfigInvalid, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid, fmt.Sprintf("failed to parse %s", path))
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AOC_DEBUG"); v != "" {
		c.Logging.DebugMode = truthy(v)
	}
	if v := os.Getenv("AOC_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("AOC_LOG_JSON"); v != "" {
		c.Logging.JSONFormat = truthy(v)
	}
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(v), "yes") || strings.EqualFold(strings.TrimSpace(v), "on")
	}
	return b
}

// ValidLogLevels lists the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Logging.Level != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.Logging.Level == l {
				valid = true
				break
			}
		}
		if !valid {
			return errors.Newf(errors.ConfigInvalid, "invalid logging.level %q (valid: %v)", c.Logging.Level, ValidLogLevels)
		}
	}

	for key := range c.Execution.Env {
		if key == "" || strings.Contains(key, "=") {
			return errors.Newf(errors.ConfigInvalid, "invalid execution.env key %q", key)
		}
	}
	return nil
}
