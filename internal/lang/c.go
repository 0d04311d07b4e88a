package lang

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// Compiler flags are fixed: warnings are errors and debug symbols are on.
var cFlags = []string{"-g", "-Werror"}

// C builds solutions with gcc. Every library under lib/c/<name> is compiled
// into build/lib<name>.a and the entry point is linked against them.
type C struct {
	// Compiler and Archiver name the toolchain binaries.
	Compiler string
	Archiver string
}

// NewC returns the gcc-based adapter.
func NewC() *C {
	return &C{Compiler: "gcc", Archiver: "ar"}
}

func (c *C) Language() string   { return "c" }
func (c *C) EntryPoint() string { return "main.c" }

// ExecutablePath is the fixed location of the linked program.
func (c *C) ExecutablePath(env Env) string {
	return filepath.Join(env.BuildDir(), "main")
}

func (c *C) Init(ctx context.Context, env Env) error {
	return scaffold(env, c.EntryPoint())
}

// Build resolves every library first, so a missing one fails before the
// compiler is ever invoked. There is no staleness check.
func (c *C) Build(ctx context.Context, env Env, spec deps.Spec) error {
	timer := logging.StartTimer(logging.CategoryBuild, "c build "+env.Location.String())
	defer timer.StopWithInfo()

	libs, err := resolveLibraries(env, spec, "build")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(env.BuildDir(), 0755); err != nil {
		return errors.Wrap(err, errors.BuildFailed,
			"failed to create "+env.BuildDir()).WithOp(c.Language(), "build")
	}

	for _, lib := range libs {
		if err := c.buildLibrary(ctx, env, lib); err != nil {
			return err
		}
	}

	return c.link(ctx, env, libs, spec.SystemLibraries())
}

func (c *C) buildLibrary(ctx context.Context, env Env, lib library) error {
	fail := func(format string, args ...interface{}) error {
		return errors.Newf(errors.DependencyBuildFailed, format, args...).WithOp(c.Language(), "build")
	}

	sources, err := filepath.Glob(filepath.Join(lib.Dir, "*.c"))
	if err != nil {
		return errors.Wrap(err, errors.DependencyBuildFailed,
			"failed to list sources of "+lib.Name).WithOp(c.Language(), "build")
	}
	if len(sources) == 0 {
		return fail("library %q has no .c sources in %s", lib.Name, lib.Dir)
	}

	objDir := filepath.Join(BuildDirName, lib.Name)
	if err := os.MkdirAll(filepath.Join(env.Dir(), objDir), 0755); err != nil {
		return errors.Wrap(err, errors.DependencyBuildFailed,
			"failed to create object directory for "+lib.Name).WithOp(c.Language(), "build")
	}

	objects := make([]string, 0, len(sources))
	for _, src := range sources {
		stem := strings.TrimSuffix(filepath.Base(src), ".c")
		obj := filepath.Join(objDir, stem+".o")

		args := append(append([]string(nil), cFlags...), "-I"+lib.Dir, "-c", "-o", obj, src)
		logging.BuildDebug("Compiling %s/%s", lib.Name, filepath.Base(src))
		if err := c.toolchain(ctx, env, c.Compiler, args, "compile"); err != nil {
			return fail("compiling library %q failed: %v", lib.Name, err)
		}
		objects = append(objects, obj)
	}

	// ar appends to an existing archive, so start from scratch.
	archive := filepath.Join(BuildDirName, "lib"+lib.Name+".a")
	if err := os.Remove(filepath.Join(env.Dir(), archive)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.DependencyBuildFailed,
			"failed to remove stale "+archive).WithOp(c.Language(), "build")
	}
	if err := c.toolchain(ctx, env, c.Archiver, append([]string{"rcs", archive}, objects...), "archive"); err != nil {
		return fail("archiving library %q failed: %v", lib.Name, err)
	}

	logging.Build("Built library %s (%d objects)", lib.Name, len(objects))
	return nil
}

// link writes to a temporary file and renames it over build/main, so a failed
// link never replaces a previously good executable.
func (c *C) link(ctx context.Context, env Env, libs []library, system []string) error {
	tmp := filepath.Join(BuildDirName, ".main-"+uuid.NewString()+".tmp")

	args := append([]string(nil), cFlags...)
	for _, lib := range libs {
		args = append(args, "-I"+lib.Dir)
	}
	args = append(args, "-o", tmp, c.EntryPoint(), "-L"+BuildDirName)
	for _, lib := range libs {
		args = append(args, "-l"+lib.Name)
	}
	for _, name := range system {
		args = append(args, "-l"+name)
	}

	tmpPath := filepath.Join(env.Dir(), tmp)
	if err := c.toolchain(ctx, env, c.Compiler, args, "link"); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.BuildFailed,
			"compiling "+c.EntryPoint()+" failed").WithOp(c.Language(), "build")
	}

	final := c.ExecutablePath(env)
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.BuildFailed,
			"failed to install "+final).WithOp(c.Language(), "build")
	}

	logging.Build("Linked %s", final)
	return nil
}

// toolchain runs one compiler or archiver step and turns a non-zero exit into
// an error.
func (c *C) toolchain(ctx context.Context, env Env, binary string, args []string, phase string) error {
	result, err := env.Executor.Execute(ctx, env.command(binary, args, phase))
	if err != nil {
		return err
	}
	if result.IsError() {
		return fmt.Errorf("%s: %s", binary, result.Error)
	}
	if result.ExitCode != 0 || result.Killed {
		logging.BuildWarn("%s exited with status %d", binary, result.ExitCode)
		return fmt.Errorf("%s exited with status %d", binary, result.ExitCode)
	}
	return nil
}

// Execute runs build/main with args.
func (c *C) Execute(ctx context.Context, env Env, spec deps.Spec, args []string) error {
	exe := c.ExecutablePath(env)
	if _, err := os.Stat(exe); err != nil {
		return errors.Newf(errors.ExecutionFailed,
			"%s does not exist; build first", exe).WithOp(c.Language(), "execute")
	}
	return runProgram(ctx, env, exe, args)
}
