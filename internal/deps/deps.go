// Package deps loads the per-solution dependency descriptor (aocdeps.yml,
// aocdeps.yaml or aocdeps.toml).
//
// A descriptor is a mapping from category to an ordered list of names:
//
//	lib:    [geometry, parser]   # in-repo libraries under lib/<language>/
//	system: [m]                  # linked by name, resolved by the toolchain
//
// Unknown categories are kept but ignored by the adapters. A missing
// descriptor is an empty Spec, not an error.
package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// Category names a group of dependencies.
type Category string

const (
	// Library lists in-repo libraries resolved under lib/<language>/<name>.
	Library Category = "lib"
	// System lists platform libraries linked by name.
	System Category = "system"
)

// BaseName is the descriptor file name without extension.
const BaseName = "aocdeps"

// Extensions are tried in order when looking for a descriptor.
var Extensions = []string{".yml", ".yaml", ".toml"}

// Spec is an immutable categorized dependency list.
type Spec struct {
	groups map[Category][]string
}

// Empty returns a Spec with no dependencies.
func Empty() Spec {
	return Spec{}
}

// NewSpec builds a Spec from a category mapping. The input is copied.
func NewSpec(groups map[Category][]string) Spec {
	if len(groups) == 0 {
		return Spec{}
	}
	s := Spec{groups: make(map[Category][]string, len(groups))}
	for c, names := range groups {
		s.groups[c] = append([]string(nil), names...)
	}
	return s
}

// Get returns a copy of the names declared under c, in declaration order.
func (s Spec) Get(c Category) []string {
	return append([]string(nil), s.groups[c]...)
}

// Libraries returns the in-repo library names.
func (s Spec) Libraries() []string {
	return s.Get(Library)
}

// SystemLibraries returns the system library names.
func (s Spec) SystemLibraries() []string {
	return s.Get(System)
}

// Categories returns every category present, sorted.
func (s Spec) Categories() []Category {
	out := make([]Category, 0, len(s.groups))
	for c := range s.groups {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsEmpty reports whether no category declares any name.
func (s Spec) IsEmpty() bool {
	for _, names := range s.groups {
		if len(names) > 0 {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	parts := make([]string, 0, len(s.groups))
	for _, c := range s.Categories() {
		parts = append(parts, fmt.Sprintf("%s=%v", c, s.groups[c]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Loader reads descriptors and caches them by absolute path.
type Loader struct {
	mu    sync.Mutex
	cache map[string]Spec
}

// NewLoader creates a Loader with an empty cache.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]Spec)}
}

var defaultLoader = NewLoader()

// Load reads the descriptor at path using the process-wide cache.
func Load(path string) (Spec, error) {
	return defaultLoader.Load(path)
}

// Load reads the descriptor at path. A missing file yields an empty Spec.
func (l *Loader) Load(path string) (Spec, error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if spec, ok := l.cache[key]; ok {
		return spec, nil
	}

	data, err := os.ReadFile(key)
	if err != nil {
		if os.IsNotExist(err) {
			logging.DepsDebug("No dependency descriptor at %s", key)
			l.cache[key] = Empty()
			return Empty(), nil
		}
		return Spec{}, errors.Wrap(err, errors.MalformedDependencySpec,
			fmt.Sprintf("failed to read %s", key))
	}

	spec, err := parse(key, data)
	if err != nil {
		return Spec{}, err
	}

	logging.Deps("Loaded %s: %s", key, spec)
	l.cache[key] = spec
	return spec, nil
}

// Find returns the first descriptor found in dirs, searched in order, or ""
// if none exists. Two descriptors in the same directory are ambiguous.
func (l *Loader) Find(dirs ...string) (string, error) {
	for _, dir := range dirs {
		var found []string
		for _, ext := range Extensions {
			p := filepath.Join(dir, BaseName+ext)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				found = append(found, p)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return "", errors.Newf(errors.MalformedDependencySpec,
				"multiple dependency descriptors in %s: %s", dir, strings.Join(found, ", "))
		}
	}
	return "", nil
}

// LoadFrom finds and loads the first descriptor in dirs. It returns the path
// used, or "" when no descriptor exists.
func (l *Loader) LoadFrom(dirs ...string) (Spec, string, error) {
	path, err := l.Find(dirs...)
	if err != nil {
		return Spec{}, "", err
	}
	if path == "" {
		logging.DepsDebug("No dependency descriptor in %v", dirs)
		return Empty(), "", nil
	}
	spec, err := l.Load(path)
	return spec, path, err
}

func parse(path string, data []byte) (Spec, error) {
	raw := make(map[string]interface{})

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Spec{}, errors.Wrap(err, errors.MalformedDependencySpec,
				fmt.Sprintf("%s is not a category -> list mapping", path))
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return Spec{}, errors.Wrap(err, errors.MalformedDependencySpec,
				fmt.Sprintf("%s is not valid TOML", path))
		}
	default:
		return Spec{}, errors.Newf(errors.MalformedDependencySpec,
			"unsupported descriptor format %q", filepath.Ext(path))
	}

	groups := make(map[Category][]string, len(raw))
	for key, value := range raw {
		names, err := toNames(value)
		if err != nil {
			return Spec{}, errors.Wrap(err, errors.MalformedDependencySpec,
				fmt.Sprintf("%s: category %q", path, key))
		}
		groups[Category(key)] = names
	}
	return NewSpec(groups), nil
}

func toNames(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		names := make([]string, 0, len(v))
		for i, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is %T, want string", i, item)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("entry %d is empty", i)
			}
			names = append(names, name)
		}
		return names, nil
	case []string:
		return toNames(stringsToAny(v))
	default:
		return nil, fmt.Errorf("value is %T, want a list of names", value)
	}
}

func stringsToAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
