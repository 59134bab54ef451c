package tasks

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/zerr"
)

func pageSources(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.srcPages, Patterns: []string{"*.html"}}
}

// runPages minifies the top-level pages into the destination root.
func (c *Catalog) runPages(ctx context.Context, out io.Writer) error {
	files, err := c.deps.Resolver.Resolve(pageSources(c.dirs))
	if err != nil {
		return err
	}

	var written atomic.Int64
	err = forEach(ctx, files, func(file string) error {
		in, err := os.Open(file) //nolint:gosec // path comes from the pages tree
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read file"), "path", file)
		}
		defer in.Close() //nolint:errcheck // read-only file

		var buf bytes.Buffer
		if err := c.deps.Minifier.HTML(&buf, in); err != nil {
			return zerr.With(err, "path", file)
		}

		ok, err := c.deps.Syncer.WriteIfChanged(filepath.Join(c.dirs.destRoot, filepath.Base(file)), buf.Bytes())
		if ok {
			written.Add(1)
		}
		return err
	})
	if err != nil {
		return err
	}

	report(out, "wrote %d of %d page(s)", written.Load(), len(files))
	return nil
}
