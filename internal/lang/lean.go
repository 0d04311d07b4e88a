package lang

import (
	"context"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
)

// Lean runs solutions with `lean --run`. It has nothing to build and cannot
// link dependencies.
type Lean struct {
	Binary string
}

// NewLean returns the Lean adapter.
func NewLean() *Lean {
	return &Lean{Binary: "lean"}
}

func (l *Lean) Language() string   { return "lean" }
func (l *Lean) EntryPoint() string { return "Main.lean" }

func (l *Lean) Init(ctx context.Context, env Env) error {
	return scaffold(env, l.EntryPoint())
}

func (l *Lean) Build(ctx context.Context, env Env, spec deps.Spec) error {
	if len(spec.Libraries()) > 0 || len(spec.SystemLibraries()) > 0 {
		return errors.Unsupported(l.Language(), "build", "dependencies are not supported")
	}
	return nil
}

func (l *Lean) Execute(ctx context.Context, env Env, spec deps.Spec, args []string) error {
	if err := requireEntryPoint(env, l.EntryPoint()); err != nil {
		return err
	}
	return runProgram(ctx, env, l.Binary, append([]string{"--run", l.EntryPoint()}, args...))
}
