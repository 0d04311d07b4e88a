// Package build orchestrates a solution build: it selects the adapter for the
// resolved location, assembles the toolchain environment and hands back a
// ready-to-execute adapter only when the build succeeded.
package build

import (
	"strconv"
	"strings"

	"aocrun/internal/config"
	"aocrun/internal/location"
	"aocrun/internal/logging"
	"aocrun/internal/workspace"
)

// ToolchainEnv returns the variables added to every child process run for
// loc. The puzzle coordinates come first so execution.env from the config can
// override them.
func ToolchainEnv(cfg config.ExecutionConfig, loc location.Location, layout workspace.Layout) []string {
	env := []string{
		"AOC_ROOT=" + layout.Root,
		"AOC_YEAR=" + strconv.Itoa(loc.Year),
		"AOC_DAY=" + strconv.Itoa(loc.Day),
	}
	if loc.HasLanguage() {
		env = append(env, "AOC_LANGUAGE="+loc.Language)
	}

	extra := cfg.EnvList()
	for _, kv := range extra {
		logging.BuildDebug("Added config env: %s", kv)
	}

	env = MergeEnv(env, extra...)
	logging.BuildDebug("Toolchain environment has %d vars", len(env))
	return env
}

// setEnvKey sets or updates an environment variable.
func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// MergeEnv merges additional environment variables into base env.
// Later values override earlier ones.
func MergeEnv(base []string, additional ...string) []string {
	result := make([]string, len(base))
	copy(result, base)

	for _, add := range additional {
		parts := strings.SplitN(add, "=", 2)
		if len(parts) == 2 {
			result = setEnvKey(result, parts[0], parts[1])
		}
	}

	return result
}
