package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// FileFilter decides which files take part in coverage.
type FileFilter interface {
	Match(path m.Path) bool
}

// PathFilter matches slash-separated paths, relative to a base directory,
// against include and exclude globs. Exclusion wins. An empty include list
// accepts everything not excluded.
type PathFilter struct {
	base    string
	include []string
	exclude []string
}

// NewPathFilter validates the patterns. base may be empty, in which case
// paths are matched as given.
func NewPathFilter(base string, include, exclude []string) (*PathFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob %q", p)
		}
	}

	return &PathFilter{base: base, include: include, exclude: exclude}, nil
}

// Match reports whether path is included.
func (f *PathFilter) Match(path m.Path) bool {
	name := f.relative(string(path))

	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}

	return false
}

func (f *PathFilter) relative(path string) string {
	if f.base != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(f.base, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}

	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	return strings.TrimPrefix(path, "/")
}
