// Package workspace locates the solutions repository and names the
// well-known paths inside it.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"aocrun/internal/config"
	"aocrun/internal/errors"
	"aocrun/internal/logging"
	"aocrun/internal/tactile"
)

const (
	// TemplateRoot holds one scaffold directory per language.
	TemplateRoot = "templates"
	// LibRoot holds shared libraries, lib/<language>/<name>.
	LibRoot = "lib"
	// RootEnv overrides root discovery.
	RootEnv = "AOC_ROOT"
)

// Layout names paths relative to a repository root.
type Layout struct {
	Root string
}

// New returns a Layout for root, cleaned and made absolute.
func New(root string) Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return Layout{Root: filepath.Clean(root)}
}

// TemplateDir is template/<language>.
func (l Layout) TemplateDir(language string) string {
	return filepath.Join(l.Root, TemplateRoot, language)
}

// LibDir is lib/<language>/<name>.
func (l Layout) LibDir(language, name string) string {
	return filepath.Join(l.Root, LibRoot, language, name)
}

// ConfigPath is .aoc/config.yaml.
func (l Layout) ConfigPath() string {
	return config.Path(l.Root)
}

// LogsDir is .aoc/logs.
func (l Layout) LogsDir() string {
	return filepath.Join(l.Root, config.Dir, "logs")
}

// JournalPath is the child-process audit journal.
func (l Layout) JournalPath() string {
	return filepath.Join(l.LogsDir(), "exec.jsonl")
}

// FindRoot returns the repository root containing dir. It asks git first and
// falls back to walking up for a .git entry.
func FindRoot(ctx context.Context, exec tactile.Executor, dir string) (string, error) {
	if exec != nil {
		result, err := exec.Execute(ctx, tactile.Command{
			Binary:           "git",
			Arguments:        []string{"rev-parse", "--show-toplevel"},
			WorkingDirectory: dir,
			Tags:             map[string]string{"phase": "discover"},
		})
		if err == nil && !result.Failed() {
			if root := strings.TrimSpace(result.Stdout); root != "" {
				logging.BootDebug("git reports repository root %s", root)
				return filepath.Clean(root), nil
			}
		}
		logging.BootDebug("git root discovery unavailable, walking up from %s", dir)
	}

	root, ok := walkUp(dir)
	if !ok {
		return "", errors.Newf(errors.RepoRootNotFound,
			"%s is not inside a git repository", dir)
	}
	return root, nil
}

func walkUp(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for current := abs; ; {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// ResolveRoot applies the override order: explicit flag, then AOC_ROOT, then
// discovery from dir.
func ResolveRoot(ctx context.Context, exec tactile.Executor, flag, dir string) (string, error) {
	if flag != "" {
		return New(flag).Root, nil
	}
	if env := strings.TrimSpace(os.Getenv(RootEnv)); env != "" {
		return New(env).Root, nil
	}
	return FindRoot(ctx, exec, dir)
}
