// Package lang implements the per-language adapters. Each adapter knows how
// to scaffold, build and execute one language's solutions; the Registry maps
// language names to adapters and is populated at startup.
package lang

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/location"
	"aocrun/internal/tactile"
	"aocrun/internal/workspace"
)

// BuildDirName is the build-output directory inside a solution directory.
const BuildDirName = "build"

// Adapter is the per-language contract. Every method is implemented; one with
// nothing to do returns nil, one that cannot honour a request returns an
// UNSUPPORTED_OPERATION error.
type Adapter interface {
	// Language is the registry key, matching the language directory name.
	Language() string

	// EntryPoint is the canonical source file whose presence marks an
	// initialized solution.
	EntryPoint() string

	// Init copies the language's scaffold into env.Dir().
	Init(ctx context.Context, env Env) error

	// Build compiles or verifies the solution and its dependencies.
	Build(ctx context.Context, env Env, spec deps.Spec) error

	// Execute runs the solution with args, streaming to env's writers.
	Execute(ctx context.Context, env Env, spec deps.Spec, args []string) error
}

// Env is the explicit context every adapter call receives.
type Env struct {
	Location location.Location
	Layout   workspace.Layout
	Executor tactile.Executor

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environment is added to every child process (KEY=VALUE).
	Environment []string
}

// Dir is the solution directory.
func (e Env) Dir() string {
	return e.Location.Dir()
}

// BuildDir is the build-output directory.
func (e Env) BuildDir() string {
	return filepath.Join(e.Dir(), BuildDirName)
}

func (e Env) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e Env) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

// command fills in the solution directory, streams and environment.
func (e Env) command(binary string, args []string, phase string) tactile.Command {
	return tactile.Command{
		Binary:           binary,
		Arguments:        args,
		WorkingDirectory: e.Dir(),
		Environment:      append([]string(nil), e.Environment...),
		Stdout:           e.stdout(),
		Stderr:           e.stderr(),
		Tags: map[string]string{
			"language": e.Location.Language,
			"phase":    phase,
		},
	}
}

// Registry maps language names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// DefaultRegistry holds every built-in adapter.
func DefaultRegistry() *Registry {
	return NewRegistry(NewC(), NewLean(), NewRuby(), NewPython())
}

// Register adds or replaces the adapter for a.Language().
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Language()] = a
}

// Lookup returns the adapter for language.
func (r *Registry) Lookup(language string) (Adapter, error) {
	a, ok := r.adapters[language]
	if !ok {
		return nil, errors.Newf(errors.UnknownLanguage,
			"no adapter for language %q (known: %v)", language, r.Languages())
	}
	return a, nil
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
