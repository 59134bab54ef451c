package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
)

func scriptSources(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.srcScripts, Patterns: []string{"**/*.{js,json}"}}
}

// runScripts bundles every script entry that exists. Production bundles are
// minified, development bundles carry linked source maps.
func (c *Catalog) runScripts(ctx context.Context, out io.Writer) error {
	entries := make([]ports.BundleEntry, 0, len(c.project.Scripts))
	for _, e := range c.project.Scripts {
		p := filepath.Join(c.dirs.srcRoot, e.Path)
		if _, err := os.Stat(p); err != nil {
			c.deps.Logger.Warn(fmt.Sprintf("script entry %q not found at %s, skipping", e.Name, p))
			continue
		}
		entries = append(entries, ports.BundleEntry{Name: e.Name, Path: p})
	}
	if len(entries) == 0 {
		report(out, "no script entries")
		return nil
	}

	dev := c.project.Mode.IsDevelopment()
	res, err := c.deps.Bundler.Bundle(ctx, ports.BundleRequest{
		Entries:   entries,
		OutDir:    c.dirs.destScripts,
		Minify:    !dev,
		SourceMap: dev,
	})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		c.deps.Logger.Warn(w)
	}
	report(out, "bundled %d entry point(s) into %d file(s)", len(entries), len(res.Files))
	return nil
}
