package lang

import (
	"context"
	"os"
	"strings"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// Python runs main.py with PYTHONPATH set to the library directories.
type Python struct {
	Binary string
}

// NewPython returns the Python adapter.
func NewPython() *Python {
	return &Python{Binary: "python3"}
}

func (p *Python) Language() string   { return "python" }
func (p *Python) EntryPoint() string { return "main.py" }

func (p *Python) Init(ctx context.Context, env Env) error {
	return scaffold(env, p.EntryPoint())
}

// Build only verifies that every library exists.
func (p *Python) Build(ctx context.Context, env Env, spec deps.Spec) error {
	if len(spec.SystemLibraries()) > 0 {
		return errors.Unsupported(p.Language(), "build", "system libraries cannot be linked")
	}
	libs, err := resolveLibraries(env, spec, "build")
	if err != nil {
		return err
	}
	logging.Build("Verified %d python libraries for %s", len(libs), env.Location)
	return nil
}

func (p *Python) Execute(ctx context.Context, env Env, spec deps.Spec, args []string) error {
	if err := requireEntryPoint(env, p.EntryPoint()); err != nil {
		return err
	}
	libs, err := resolveLibraries(env, spec, "execute")
	if err != nil {
		return err
	}

	var extra []string
	if len(libs) > 0 {
		extra = append(extra, "PYTHONPATH="+strings.Join(libraryDirs(libs), string(os.PathListSeparator)))
	}
	return runProgram(ctx, env, p.Binary, append([]string{p.EntryPoint()}, args...), extra...)
}
