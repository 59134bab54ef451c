package tasks

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/zerr"
)

// imageExtensions are the files copy-images publishes.
const imageExtensions = "{jpg,jpeg,png,webp,avif,gif,svg}"

// copySpec copies the files of a set to the same relative paths below To.
type copySpec struct {
	From domain.FileSet
	To   string
}

func sources(specs []copySpec) []domain.FileSet {
	sets := make([]domain.FileSet, len(specs))
	for i, s := range specs {
		sets[i] = s.From
	}
	return sets
}

func targets(specs []copySpec) []domain.FileSet {
	sets := make([]domain.FileSet, len(specs))
	for i, s := range specs {
		sets[i] = domain.FileSet{Dir: s.To, Patterns: s.From.Patterns, Excludes: s.From.Excludes}
	}
	return sets
}

// miscCopies are the favicon tree and the media, data and PHP files of the site root.
func miscCopies(d layout) []copySpec {
	return []copySpec{
		{From: domain.FileSet{Dir: d.srcFavicon, Patterns: []string{"**"}}, To: d.destFavicon},
		{
			From: domain.FileSet{Dir: d.srcRoot, Patterns: []string{"video/**", "data/**", "file/**", "*.php"}},
			To:   d.destRoot,
		},
	}
}

func fontCopy(d layout) copySpec {
	return copySpec{
		From: domain.FileSet{Dir: d.srcFonts, Patterns: []string{"**/*.{woff,woff2}"}},
		To:   d.destFonts,
	}
}

// imageCopy skips the sprite sources and anything that would land on the
// generated sprite.
func imageCopy(d layout) copySpec {
	set := domain.FileSet{Dir: d.srcImages, Patterns: []string{"**/*." + imageExtensions}}
	if rel, ok := below(d.srcImages, d.srcSpriteSvg); ok {
		set.Excludes = append(set.Excludes, rel+"/*.svg")
	}
	if rel, ok := below(d.destImages, d.destSprite); ok {
		set.Excludes = append(set.Excludes, path.Join(rel, domain.SpriteFileName))
	}
	return copySpec{From: set, To: d.destImages}
}

// copyTask copies every spec, skipping files the change filter reports as current.
func (c *Catalog) copyTask(specs []copySpec) runFunc {
	return func(ctx context.Context, out io.Writer) error {
		var total int
		var written atomic.Int64

		for _, spec := range specs {
			files, err := c.deps.Resolver.Resolve(spec.From)
			if err != nil {
				return err
			}
			total += len(files)

			err = forEach(ctx, files, func(src string) error {
				rel, err := filepath.Rel(spec.From.Dir, src)
				if err != nil {
					return zerr.With(zerr.Wrap(err, "failed to resolve relative path"), "path", src)
				}
				ok, err := c.deps.Syncer.Copy(src, filepath.Join(spec.To, rel), c.project.Changed)
				if err != nil {
					return err
				}
				if ok {
					written.Add(1)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		report(out, "copied %d of %d file(s)", written.Load(), total)
		return nil
	}
}

// runClean removes the destination tree. It refuses to remove a directory
// holding the project root or the sources.
func (c *Catalog) runClean(_ context.Context, out io.Writer) error {
	dest := c.dirs.destRoot

	for _, protected := range []string{c.project.Root, c.dirs.srcRoot} {
		if contains(dest, protected) {
			err := zerr.Wrap(domain.ErrCleanFailed, "refusing to remove a directory holding the sources")
			return zerr.With(err, "path", dest)
		}
	}

	if err := os.RemoveAll(dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", dest)
	}
	report(out, "removed %s", dest)
	return nil
}

// contains reports whether p is dir or lies below it.
func contains(dir, p string) bool {
	if filepath.Clean(dir) == filepath.Clean(p) {
		return true
	}
	_, ok := below(dir, p)
	return ok
}
