// Package location derives the puzzle coordinates (year, day, language) from a
// directory's position under the repository root.
//
// The expected shape is <root>/<year>/d<day>[/<language>[/...]]. Resolve is a
// pure function of two paths; it never consults the process working
// directory.
package location

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"aocrun/internal/errors"
)

// DayPrefix is the literal prefix of the day directory name.
const DayPrefix = "d"

// Location identifies one day's solution, optionally in one language.
type Location struct {
	Year     int
	Day      int
	Language string // empty when resolved at the day level

	// DayDir is <root>/<year>/d<day>, built from the original segments.
	DayDir string
}

// HasLanguage reports whether a language segment was present.
func (l Location) HasLanguage() bool {
	return l.Language != ""
}

// Dir returns the solution directory: the language directory when a language
// is set, otherwise the day directory.
func (l Location) Dir() string {
	if l.Language == "" {
		return l.DayDir
	}
	return filepath.Join(l.DayDir, l.Language)
}

// WithLanguage returns a copy of l bound to language.
func (l Location) WithLanguage(language string) Location {
	l.Language = language
	return l
}

func (l Location) String() string {
	if l.Language == "" {
		return fmt.Sprintf("%d/day %d", l.Year, l.Day)
	}
	return fmt.Sprintf("%d/day %d/%s", l.Year, l.Day, l.Language)
}

// Resolve derives a Location from cwd relative to repoRoot.
func Resolve(cwd, repoRoot string) (Location, error) {
	cwd = filepath.Clean(cwd)
	root := filepath.Clean(repoRoot)

	rest, ok := strings.CutPrefix(cwd, root)
	if !ok || (rest != "" && !strings.HasPrefix(rest, string(filepath.Separator)) && root != string(filepath.Separator)) {
		return Location{}, errors.Newf(errors.InvalidLocation,
			"%s is not inside the repository %s", cwd, root)
	}
	rest = strings.TrimLeft(rest, string(filepath.Separator))

	var segments []string
	if rest != "" {
		segments = strings.Split(rest, string(filepath.Separator))
	}
	if len(segments) < 2 {
		return Location{}, errors.Newf(errors.InvalidLocation,
			"expected <year>/%s<day>[/<language>] below %s, got %q", DayPrefix, root, rest)
	}

	year, err := parseNumber(segments[0])
	if err != nil {
		return Location{}, errors.Wrap(err, errors.InvalidLocation,
			fmt.Sprintf("invalid year segment %q", segments[0]))
	}

	digits, ok := strings.CutPrefix(segments[1], DayPrefix)
	if !ok {
		return Location{}, errors.Newf(errors.InvalidLocation,
			"day segment %q is missing the %q prefix", segments[1], DayPrefix)
	}
	day, err := parseNumber(digits)
	if err != nil {
		return Location{}, errors.Wrap(err, errors.InvalidLocation,
			fmt.Sprintf("invalid day segment %q", segments[1]))
	}

	loc := Location{
		Year:   year,
		Day:    day,
		DayDir: filepath.Join(root, segments[0], segments[1]),
	}
	if len(segments) > 2 {
		loc.Language = segments[2]
	}
	return loc, nil
}

// parseNumber accepts unsigned base-10 digits only.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a base-10 number", s)
		}
	}
	return strconv.Atoi(s)
}
