package lang

import (
	"os"
	"path/filepath"
	"strings"

	"aocrun/internal/deps"
	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// library is a resolved in-repo dependency.
type library struct {
	Name string
	Dir  string
}

// resolveLibraries maps every lib entry to lib/<language>/<name>. All entries
// are checked before anything is built.
func resolveLibraries(env Env, spec deps.Spec, op string) ([]library, error) {
	language := env.Location.Language
	names := spec.Libraries()
	libs := make([]library, 0, len(names))

	for _, name := range names {
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return nil, errors.Newf(errors.MalformedDependencySpec,
				"library name %q must be a single directory name", name).WithOp(language, op)
		}
		dir := env.Layout.LibDir(language, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.Newf(errors.DependencyNotFound,
				"library %q not found at %s", name, dir).WithOp(language, op)
		}
		logging.DepsDebug("Resolved library %s -> %s", name, dir)
		libs = append(libs, library{Name: name, Dir: dir})
	}
	return libs, nil
}

func libraryDirs(libs []library) []string {
	dirs := make([]string, len(libs))
	for i, l := range libs {
		dirs[i] = l.Dir
	}
	return dirs
}

// requireEntryPoint fails with EXECUTION_FAILED when the entry file is absent.
func requireEntryPoint(env Env, entry string) error {
	path := filepath.Join(env.Dir(), entry)
	if _, err := os.Stat(path); err != nil {
		return errors.Newf(errors.ExecutionFailed,
			"%s not found in %s", entry, env.Dir()).WithOp(env.Location.Language, "execute")
	}
	return nil
}
