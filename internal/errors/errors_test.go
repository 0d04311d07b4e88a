package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(InvalidLocation, "not a day directory")
	assert.Equal(t, "[INVALID_LOCATION] not a day directory", err.Error())

	wrapped := Wrap(stderrors.New("boom"), BuildFailed, "gcc exited 1")
	assert.Equal(t, "[BUILD_FAILED] gcc exited 1: boom", wrapped.Error())
}

func TestCodeOfThroughWrapping(t *testing.T) {
	base := New(DependencyNotFound, "no lib/c/geometry")
	err := fmt.Errorf("build: %w", base)

	assert.Equal(t, DependencyNotFound, CodeOf(err))
	assert.True(t, Is(err, DependencyNotFound))
	assert.False(t, Is(err, BuildFailed))
	assert.Equal(t, Code(""), CodeOf(stderrors.New("plain")))
}

func TestIsFindsInnerCode(t *testing.T) {
	inner := New(DependencyBuildFailed, "gcc exited 1")
	outer := Wrap(inner, BuildFailed, "build failed")

	assert.Equal(t, BuildFailed, CodeOf(outer))
	assert.True(t, Is(outer, DependencyBuildFailed))
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", stderrors.New("x"), 1},
		{"build failure", New(BuildFailed, "x"), 1},
		{"child exit", New(ExecutionFailed, "x").WithExitCode(3), 3},
		{"child exit wrapped", fmt.Errorf("run: %w", New(ExecutionFailed, "x").WithExitCode(42)), 42},
		{"missing binary", New(ExecutionFailed, "no build/main"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitStatus(tt.err))
		})
	}
}

func TestUnsupported(t *testing.T) {
	err := Unsupported("lean", "build", "dependencies are not supported")
	assert.Equal(t, UnsupportedOperation, err.Code)
	assert.Equal(t, "lean", err.Language)
	assert.Equal(t, "build", err.Op)
	assert.Contains(t, err.Error(), "lean adapter does not support build")
}
