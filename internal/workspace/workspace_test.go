package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aocrun/internal/errors"
	"aocrun/internal/tactile/tactiletest"
)

func TestLayout(t *testing.T) {
	l := New("/repo")
	assert.Equal(t, filepath.Join("/repo", "templates", "c"), l.TemplateDir("c"))
	assert.Equal(t, filepath.Join("/repo", "lib", "c", "geometry"), l.LibDir("c", "geometry"))
	assert.Equal(t, filepath.Join("/repo", ".aoc", "config.yaml"), l.ConfigPath())
	assert.Equal(t, filepath.Join("/repo", ".aoc", "logs", "exec.jsonl"), l.JournalPath())
}

func TestFindRoot_FromGit(t *testing.T) {
	rec := tactiletest.New()
	rec.Respond("git", "/from/git\n")

	root, err := FindRoot(context.Background(), rec, "/from/git/2025/6")
	require.NoError(t, err)
	assert.Equal(t, "/from/git", root)

	calls := rec.Calls("git")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"rev-parse", "--show-toplevel"}, calls[0].Arguments)
	assert.Equal(t, "/from/git/2025/6", calls[0].WorkingDirectory)
}

func TestFindRoot_WalkUpFallback(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	deep := filepath.Join(root, "2025", "6", "c")
	require.NoError(t, os.MkdirAll(deep, 0755))

	rec := tactiletest.New()
	rec.CannotStart("git")

	got, err := FindRoot(context.Background(), rec, deep)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}

func TestFindRoot_NotFound(t *testing.T) {
	rec := tactiletest.New()
	rec.FailOn("git", 128)

	dir := t.TempDir()
	if _, ok := walkUp(dir); ok {
		t.Skip("temp dir is inside a git checkout")
	}

	_, err := FindRoot(context.Background(), rec, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.RepoRootNotFound))
}

func TestResolveRoot_Precedence(t *testing.T) {
	rec := tactiletest.New()
	rec.Respond("git", "/discovered\n")
	ctx := context.Background()

	t.Setenv(RootEnv, "/from/env")
	root, err := ResolveRoot(ctx, rec, "/from/flag", ".")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", root)

	root, err = ResolveRoot(ctx, rec, "", ".")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", root)
	assert.Empty(t, rec.Commands())

	t.Setenv(RootEnv, "")
	root, err = ResolveRoot(ctx, rec, "", ".")
	require.NoError(t, err)
	assert.Equal(t, "/discovered", root)
}
