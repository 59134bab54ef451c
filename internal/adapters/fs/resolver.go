package fs

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"slices"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileResolver = (*Resolver)(nil)

// Resolver implements ports.FileResolver by walking the file set's directory.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Resolve returns the files below set.Dir whose relative path matches the
// set's patterns and none of its excludes.
func (r *Resolver) Resolve(set domain.FileSet) ([]string, error) {
	matcher, err := set.Matcher()
	if err != nil {
		return nil, err
	}

	var files []string
	for path, err := range r.walker.WalkFiles(set.Dir) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", set.Dir)
		}

		rel, err := filepath.Rel(set.Dir, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve relative path"), "path", path)
		}
		if matcher.Match(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
	}

	slices.Sort(files)
	return files, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist)
}
