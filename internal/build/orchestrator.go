package build

import (
	"context"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/lang"
	"aocrun/internal/logging"
)

// Orchestrator selects adapters from a registry and runs their builds.
type Orchestrator struct {
	registry *lang.Registry
}

// NewOrchestrator creates an orchestrator over registry.
func NewOrchestrator(registry *lang.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Prepared is an adapter whose build succeeded, bound to the environment and
// dependency spec it was built with.
type Prepared struct {
	Adapter lang.Adapter
	Env     lang.Env
	Spec    deps.Spec
}

// Execute runs the built solution with args.
func (p *Prepared) Execute(ctx context.Context, args []string) error {
	return p.Adapter.Execute(ctx, p.Env, p.Spec, args)
}

// Build compiles the solution at env.Location. A failed build returns no
// Prepared, so nothing can be executed after it.
func (o *Orchestrator) Build(ctx context.Context, env lang.Env, spec deps.Spec) (*Prepared, error) {
	if !env.Location.HasLanguage() {
		return nil, errors.Newf(errors.InvalidLocation,
			"%s has no language directory; cd into <year>/d<day>/<language>", env.Location)
	}

	adapter, err := o.registry.Lookup(env.Location.Language)
	if err != nil {
		return nil, err
	}

	logging.Build("Building %s with %d libraries, %d system libraries",
		env.Location, len(spec.Libraries()), len(spec.SystemLibraries()))

	if err := adapter.Build(ctx, env, spec); err != nil {
		logging.BuildError("Build of %s failed: %v", env.Location, err)
		return nil, err
	}

	return &Prepared{Adapter: adapter, Env: env, Spec: spec}, nil
}
