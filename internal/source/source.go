// Package source builds the distributable source set of a project from
// glob patterns.
//
// A Set holds ordered include and exclude patterns. It always includes the
// configuration document itself, plus a src-layout and a flat-layout glob for
// every declared package. Patterns are matched with
// github.com/bmatcuk/doublestar/v4, where "**" descends any number of
// directories.
package source

import (
	"io/fs"
	"os"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Set is an append-only set-builder over glob patterns. It is not safe for
// concurrent mutation.
type Set struct {
	include []string
	exclude []string
}

// New creates a Set seeded with configName (the configuration document's
// file name) and, for each package, the globs "src/<pkg>/**" and
// "<pkg>/**".
func New(configName string, packages []string) *Set {
	s := &Set{include: []string{configName}}
	for _, pkg := range packages {
		s.include = append(s.include, LayoutPatterns(pkg)...)
	}
	return s
}

// LayoutPatterns returns the src-layout and flat-layout globs for pkg.
func LayoutPatterns(pkg string) []string {
	return []string{"src/" + pkg + "/**", pkg + "/**"}
}

// Include appends an include pattern. The pattern is not validated until
// Expand.
func (s *Set) Include(pattern string) {
	s.include = append(s.include, pattern)
}

// Exclude appends an exclude pattern. The pattern is not validated until
// Expand.
func (s *Set) Exclude(pattern string) {
	s.exclude = append(s.exclude, pattern)
}

// Includes returns the include patterns in declaration order.
func (s *Set) Includes() []string {
	return slices.Clone(s.include)
}

// Excludes returns the exclude patterns in declaration order.
func (s *Set) Excludes() []string {
	return slices.Clone(s.exclude)
}

// Contains reports whether pattern is one of the include patterns and not
// one of the exclude patterns. It compares pattern strings, not file paths:
// Contains("src/spam/**") can be true while Contains("src/spam/a.py") is
// false. Use Expand to test file membership.
func (s *Set) Contains(pattern string) bool {
	return slices.Contains(s.include, pattern) && !slices.Contains(s.exclude, pattern)
}

// Expand resolves the patterns against the directory root and returns the
// matching files, slash-separated and relative to root.
//
// Include patterns are expanded in declaration order; the matches of one
// pattern are sorted. A file matched by two include patterns is listed twice.
// Files matched by any exclude pattern are removed. Nothing is cached.
func (s *Set) Expand(root string) ([]string, error) {
	return s.ExpandFS(os.DirFS(root))
}

// ExpandFS is Expand over an arbitrary file system.
func (s *Set) ExpandFS(fsys fs.FS) ([]string, error) {
	included, err := glob(fsys, s.include)
	if err != nil {
		return nil, err
	}
	excluded, err := glob(fsys, s.exclude)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]struct{}, len(excluded))
	for _, p := range excluded {
		drop[p] = struct{}{}
	}

	out := make([]string, 0, len(included))
	for _, p := range included {
		if _, ok := drop[p]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func glob(fsys fs.FS, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}
