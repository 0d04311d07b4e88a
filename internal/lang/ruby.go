package lang

import (
	"context"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// Ruby runs main.rb with each library directory on the load path.
type Ruby struct {
	Binary string
}

// NewRuby returns the Ruby adapter.
func NewRuby() *Ruby {
	return &Ruby{Binary: "ruby"}
}

func (r *Ruby) Language() string   { return "ruby" }
func (r *Ruby) EntryPoint() string { return "main.rb" }

func (r *Ruby) Init(ctx context.Context, env Env) error {
	return scaffold(env, r.EntryPoint())
}

// Build only verifies that every library exists.
func (r *Ruby) Build(ctx context.Context, env Env, spec deps.Spec) error {
	if len(spec.SystemLibraries()) > 0 {
		return errors.Unsupported(r.Language(), "build", "system libraries cannot be linked")
	}
	libs, err := resolveLibraries(env, spec, "build")
	if err != nil {
		return err
	}
	logging.Build("Verified %d ruby libraries for %s", len(libs), env.Location)
	return nil
}

func (r *Ruby) Execute(ctx context.Context, env Env, spec deps.Spec, args []string) error {
	if err := requireEntryPoint(env, r.EntryPoint()); err != nil {
		return err
	}
	libs, err := resolveLibraries(env, spec, "execute")
	if err != nil {
		return err
	}

	argv := make([]string, 0, len(libs)+len(args)+1)
	for _, dir := range libraryDirs(libs) {
		argv = append(argv, "-I"+dir)
	}
	argv = append(argv, r.EntryPoint())
	argv = append(argv, args...)
	return runProgram(ctx, env, r.Binary, argv)
}
