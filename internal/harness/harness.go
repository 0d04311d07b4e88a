// Package harness implements the three user-facing operations (init, build
// and run) over an explicit Location. The CLI resolves the Location once and
// passes it in; nothing here consults the process working directory.
package harness

import (
	"context"
	"io"
	"os"

	"aocrun/internal/build"
	"aocrun/internal/config"
	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/lang"
	"aocrun/internal/location"
	"aocrun/internal/logging"
	"aocrun/internal/tactile"
	"aocrun/internal/workspace"
)

// DefaultInput is passed to the solution when run is given no arguments.
const DefaultInput = "../input"

// Options configures a Harness.
type Options struct {
	Layout   workspace.Layout
	Executor tactile.Executor
	Config   *config.Config

	// Registry defaults to lang.DefaultRegistry().
	Registry *lang.Registry
	// Loader defaults to a fresh deps.Loader.
	Loader *deps.Loader

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Harness runs operations for one repository.
type Harness struct {
	layout       workspace.Layout
	executor     tactile.Executor
	config       *config.Config
	registry     *lang.Registry
	orchestrator *build.Orchestrator
	loader       *deps.Loader

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a Harness.
func New(opts Options) *Harness {
	h := &Harness{
		layout:   opts.Layout,
		executor: opts.Executor,
		config:   opts.Config,
		registry: opts.Registry,
		loader:   opts.Loader,
		stdin:    opts.Stdin,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
	}
	if h.config == nil {
		h.config = config.DefaultConfig()
	}
	if h.registry == nil {
		h.registry = lang.DefaultRegistry()
	}
	if h.loader == nil {
		h.loader = deps.NewLoader()
	}
	if h.stdin == nil {
		h.stdin = os.Stdin
	}
	if h.stdout == nil {
		h.stdout = os.Stdout
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}
	h.orchestrator = build.NewOrchestrator(h.registry)
	return h
}

func (h *Harness) env(loc location.Location) lang.Env {
	return lang.Env{
		Location:    loc,
		Layout:      h.layout,
		Executor:    h.executor,
		Stdin:       h.stdin,
		Stdout:      h.stdout,
		Stderr:      h.stderr,
		Environment: build.ToolchainEnv(h.config.Execution, loc, h.layout),
	}
}

// Init scaffolds a solution. At the day level language names the directory
// to create; inside a language directory it is ignored.
func (h *Harness) Init(ctx context.Context, loc location.Location, language string) error {
	if !loc.HasLanguage() {
		if language == "" {
			return errors.Newf(errors.MissingArgument,
				"init at %s needs a language (one of %v)", loc, h.registry.Languages())
		}
		loc = loc.WithLanguage(language)
	} else if language != "" && language != loc.Language {
		logging.BootWarn("Ignoring language %q: already in %s", language, loc)
	}

	adapter, err := h.registry.Lookup(loc.Language)
	if err != nil {
		return err
	}

	_, statErr := os.Stat(loc.Dir())
	created := os.IsNotExist(statErr)

	logging.Adapter("init %s", loc)
	if err := adapter.Init(ctx, h.env(loc)); err != nil {
		if created {
			_ = os.RemoveAll(loc.Dir())
		}
		return err
	}
	return nil
}

// Build loads the dependency descriptor (language directory first, then the
// day directory) and builds the solution.
func (h *Harness) Build(ctx context.Context, loc location.Location) (*build.Prepared, error) {
	if !loc.HasLanguage() {
		return nil, errors.Newf(errors.InvalidLocation,
			"%s has no language directory; cd into <year>/d<day>/<language>", loc)
	}

	spec, path, err := h.loader.LoadFrom(loc.Dir(), loc.DayDir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logging.Deps("Using %s", path)
	}

	return h.orchestrator.Build(ctx, h.env(loc), spec)
}

// Run builds and, only if that succeeded, executes the solution with args.
func (h *Harness) Run(ctx context.Context, loc location.Location, args []string) error {
	prepared, err := h.Build(ctx, loc)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{DefaultInput}
	}
	return prepared.Execute(ctx, args)
}
