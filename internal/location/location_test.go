package location

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aocrun/internal/errors"
)

func TestResolve_Valid(t *testing.T) {
	root := filepath.FromSlash("/repo")

	tests := []struct {
		name string
		cwd  string
		want Location
	}{
		{
			name: "language directory",
			cwd:  "/repo/2025/d6/ruby",
			want: Location{Year: 2025, Day: 6, Language: "ruby", DayDir: filepath.FromSlash("/repo/2025/d6")},
		},
		{
			name: "day directory",
			cwd:  "/repo/2023/d12",
			want: Location{Year: 2023, Day: 12, DayDir: filepath.FromSlash("/repo/2023/d12")},
		},
		{
			name: "nested below language",
			cwd:  "/repo/2016/d20/rust/src",
			want: Location{Year: 2016, Day: 20, Language: "rust", DayDir: filepath.FromSlash("/repo/2016/d20")},
		},
		{
			name: "two digit year with padded day",
			cwd:  "/repo/15/d01/c",
			want: Location{Year: 15, Day: 1, Language: "c", DayDir: filepath.FromSlash("/repo/15/d01")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(filepath.FromSlash(tt.cwd), root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	root := filepath.FromSlash("/repo")

	tests := []struct {
		name string
		cwd  string
	}{
		{"missing day prefix", "/repo/2025/6/ruby"},
		{"non numeric year", "/repo/templates/c"},
		{"non numeric day", "/repo/2025/dx/ruby"},
		{"bare prefix", "/repo/2025/d/ruby"},
		{"signed day", "/repo/2025/d-1/ruby"},
		{"year only", "/repo/2025"},
		{"repo root", "/repo"},
		{"outside repo", "/elsewhere/2025/d6/ruby"},
		{"sibling with shared prefix", "/repo2/2025/d6/ruby"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(filepath.FromSlash(tt.cwd), root)
			require.Error(t, err)
			assert.Equal(t, errors.InvalidLocation, errors.CodeOf(err))
		})
	}
}

func TestResolve_TrailingSeparatorOnRoot(t *testing.T) {
	got, err := Resolve(filepath.FromSlash("/repo/2025/d6/c"), filepath.FromSlash("/repo/"))
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 6, got.Day)
	assert.Equal(t, "c", got.Language)
}

func TestLocationDir(t *testing.T) {
	loc, err := Resolve(filepath.FromSlash("/repo/2025/d6"), filepath.FromSlash("/repo"))
	require.NoError(t, err)

	assert.False(t, loc.HasLanguage())
	assert.Equal(t, filepath.FromSlash("/repo/2025/d6"), loc.Dir())

	withLang := loc.WithLanguage("c")
	assert.True(t, withLang.HasLanguage())
	assert.Equal(t, filepath.FromSlash("/repo/2025/d6/c"), withLang.Dir())
	assert.False(t, loc.HasLanguage(), "WithLanguage must not mutate the receiver")
	assert.Equal(t, "2025/day 6/c", withLang.String())
}
