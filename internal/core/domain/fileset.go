package domain

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/zerr"
)

// FileSet is a directory plus glob patterns evaluated relative to it.
// Patterns use '/' as separator; "**" crosses directories and a "**/" prefix
// also matches files directly inside Dir.
type FileSet struct {
	Dir      string
	Patterns []string
	Excludes []string
}

// Pattern is a compiled glob pattern.
type Pattern struct {
	raw   string
	globs []glob.Glob
}

// CompilePattern compiles a single glob pattern.
func CompilePattern(pattern string) (Pattern, error) {
	variants := []string{pattern}
	if strings.Contains(pattern, "**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "**/", ""))
	}

	p := Pattern{raw: pattern}
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return Pattern{}, zerr.With(zerr.Wrap(ErrInvalidPattern, err.Error()), "pattern", pattern)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Match reports whether the slash-separated relative path matches the pattern.
func (p Pattern) Match(rel string) bool {
	for _, g := range p.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// String returns the source pattern.
func (p Pattern) String() string {
	return p.raw
}

// Matcher matches relative paths against a set of include and exclude patterns.
type Matcher struct {
	include []Pattern
	exclude []Pattern
}

// NewMatcher compiles include and exclude patterns.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{
		include: make([]Pattern, 0, len(include)),
		exclude: make([]Pattern, 0, len(exclude)),
	}
	for _, raw := range include {
		p, err := CompilePattern(raw)
		if err != nil {
			return nil, err
		}
		m.include = append(m.include, p)
	}
	for _, raw := range exclude {
		p, err := CompilePattern(raw)
		if err != nil {
			return nil, err
		}
		m.exclude = append(m.exclude, p)
	}
	return m, nil
}

// Match reports whether rel is matched by an include pattern and by no exclude pattern.
func (m *Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.exclude {
		if p.Match(rel) {
			return false
		}
	}
	for _, p := range m.include {
		if p.Match(rel) {
			return true
		}
	}
	return false
}

// Matcher compiles the file set's patterns.
func (fs FileSet) Matcher() (*Matcher, error) {
	return NewMatcher(fs.Patterns, fs.Excludes)
}

// Contains reports whether the file at path p belongs to the file set.
func (fs FileSet) Contains(p string) (bool, error) {
	rel, ok := relativeTo(fs.Dir, p)
	if !ok {
		return false, nil
	}
	m, err := fs.Matcher()
	if err != nil {
		return false, err
	}
	return m.Match(rel), nil
}

// Overlaps reports whether the two file sets may name a common file.
// Literal patterns are checked exactly; two wildcard patterns are considered
// disjoint only when their literal prefixes, depth ranges or extensions differ.
func (fs FileSet) Overlaps(other FileSet) (bool, error) {
	for _, a := range fs.Patterns {
		for _, b := range other.Patterns {
			full := joinPattern(fs.Dir, a)
			otherFull := joinPattern(other.Dir, b)

			switch {
			case !hasMeta(full):
				hit, err := other.Contains(full)
				if err != nil || hit {
					return hit, err
				}
			case !hasMeta(otherFull):
				hit, err := fs.Contains(otherFull)
				if err != nil || hit {
					return hit, err
				}
			case globsMayIntersect(full, otherFull):
				return true, nil
			}
		}
	}
	return false, nil
}

func joinPattern(dir, pattern string) string {
	return path.Join(filepath.ToSlash(filepath.Clean(dir)), pattern)
}

func relativeTo(dir, p string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func globsMayIntersect(a, b string) bool {
	segsA := strings.Split(a, "/")
	segsB := strings.Split(b, "/")

	litA := literalPrefix(segsA)
	litB := literalPrefix(segsB)
	for i := 0; i < len(litA) && i < len(litB); i++ {
		if litA[i] != litB[i] {
			return false
		}
	}

	minA, maxA := depthRange(segsA)
	minB, maxB := depthRange(segsB)
	if minA > maxB || minB > maxA {
		return false
	}

	extA := extensions(segsA[len(segsA)-1])
	extB := extensions(segsB[len(segsB)-1])
	if extA != nil && extB != nil {
		for ext := range extA {
			if extB[ext] {
				return true
			}
		}
		return false
	}
	return true
}

func literalPrefix(segs []string) []string {
	for i, s := range segs {
		if hasMeta(s) {
			return segs[:i]
		}
	}
	return segs
}

const unbounded = int(^uint(0) >> 1)

// depthRange returns the minimum and maximum number of path segments a
// pattern can match. A "**/" segment may match nothing.
func depthRange(segs []string) (int, int) {
	minDepth := len(segs)
	maxDepth := len(segs)
	for i, s := range segs {
		if !strings.Contains(s, "**") {
			continue
		}
		maxDepth = unbounded
		if s == "**" && i < len(segs)-1 {
			minDepth--
		}
	}
	return minDepth, maxDepth
}

// extensions returns the file extensions the last pattern segment can end
// with, or nil when any extension is possible.
func extensions(seg string) map[string]bool {
	if strings.HasSuffix(seg, "}") {
		i := strings.LastIndex(seg, ".{")
		if i < 0 {
			return nil
		}
		set := make(map[string]bool)
		for _, alt := range strings.Split(seg[i+2:len(seg)-1], ",") {
			if alt == "" || hasMeta(alt) {
				return nil
			}
			set[strings.ToLower(alt)] = true
		}
		return set
	}

	i := strings.LastIndex(seg, ".")
	if i < 0 || hasMeta(seg[i+1:]) || seg[i+1:] == "" {
		return nil
	}
	return map[string]bool{strings.ToLower(seg[i+1:]): true}
}
