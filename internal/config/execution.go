package config

import "sort"

// ExecutionConfig configures child processes (compilers and solution programs).
type ExecutionConfig struct {
	// InheritEnvironment passes the whole harness environment to children.
	InheritEnvironment bool `yaml:"inherit_environment"`

	// AllowedEnvVars are passed through when InheritEnvironment is false.
	AllowedEnvVars []string `yaml:"allowed_env_vars"`

	// Env holds extra variables set for every child process.
	Env map[string]string `yaml:"env,omitempty"`
}

// EnvList returns Env as sorted KEY=VALUE entries.
func (c ExecutionConfig) EnvList() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}
