package tasks

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

func svgSet(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.srcImages, Patterns: []string{"**/*.svg"}}
}

func spriteSources(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.srcSpriteSvg, Patterns: []string{"*.svg"}}
}

func builtRasters(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.destImages, Patterns: []string{"**/*.{jpg,png}"}}
}

// rasterSources are the source images converted by webp and avif.
func (c *Catalog) rasterSources() domain.FileSet {
	set := domain.FileSet{Dir: c.dirs.srcImages, Patterns: []string{"**/*.{jpg,png}"}}
	for _, dir := range c.exclude {
		set.Excludes = append(set.Excludes, dir+"/**")
	}
	return set
}

// runSvgOptimize optimizes the source SVGs in place. A file is rewritten
// only when the optimized bytes differ.
func (c *Catalog) runSvgOptimize(ctx context.Context, out io.Writer) error {
	files, err := c.deps.Resolver.Resolve(svgSet(c.dirs))
	if err != nil {
		return err
	}

	var written atomic.Int64
	err = forEach(ctx, files, func(file string) error {
		data, err := os.ReadFile(file) //nolint:gosec // path comes from the image tree
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read file"), "path", file)
		}

		var buf bytes.Buffer
		if err := c.deps.Minifier.SVG(&buf, bytes.NewReader(data)); err != nil {
			return zerr.With(err, "path", file)
		}
		if bytes.Equal(buf.Bytes(), data) {
			return nil
		}

		ok, err := c.deps.Syncer.WriteIfChanged(file, buf.Bytes())
		if ok {
			written.Add(1)
		}
		return err
	})
	if err != nil {
		return err
	}

	report(out, "optimized %d of %d file(s)", written.Load(), len(files))
	return nil
}

// runSprite merges the sprite sources into one symbol sprite. Without
// sources nothing is written.
func (c *Catalog) runSprite(_ context.Context, out io.Writer) error {
	files, err := c.deps.Resolver.Resolve(spriteSources(c.dirs))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		report(out, "no sprite sources")
		return nil
	}

	symbols := make([]ports.SpriteSymbol, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // path comes from the sprite tree
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read file"), "path", file)
		}
		id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		symbols = append(symbols, ports.SpriteSymbol{ID: id, Path: file, Data: data})
	}

	sprite, err := c.deps.Sprites.Build(symbols)
	if err != nil {
		return err
	}

	dst := filepath.Join(c.dirs.destSprite, domain.SpriteFileName)
	if _, err := c.deps.Syncer.WriteIfChanged(dst, sprite); err != nil {
		return err
	}
	report(out, "wrote %s with %d symbol(s)", dst, len(symbols))
	return nil
}

// convertTask writes a next-gen copy next to every source image. Sources
// that differ only in extension would write the same copy and fail the task
// before anything is converted.
func (c *Catalog) convertTask(format ports.ImageFormat) runFunc {
	return func(ctx context.Context, out io.Writer) error {
		files, err := c.deps.Resolver.Resolve(c.rasterSources())
		if err != nil {
			return err
		}

		targets := make(map[string]string, len(files))
		for _, file := range files {
			dst := convertTarget(file, format)
			if prev, ok := targets[dst]; ok {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicateImageTarget, "cannot convert images"), "path", dst)
				return zerr.With(err, "sources", prev+", "+file)
			}
			targets[dst] = file
		}

		err = forEach(ctx, files, func(file string) error {
			return c.deps.Images.Convert(ctx, file, convertTarget(file, format), format)
		})
		if err != nil {
			return err
		}

		report(out, "converted %d file(s) to %s", len(files), format)
		return nil
	}
}

func convertTarget(file string, format ports.ImageFormat) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + "." + string(format)
}

// runImagemin recompresses the published raster images in place.
func (c *Catalog) runImagemin(ctx context.Context, out io.Writer) error {
	files, err := c.deps.Resolver.Resolve(builtRasters(c.dirs))
	if err != nil {
		return err
	}

	err = forEach(ctx, files, func(file string) error {
		return c.deps.Images.Recompress(ctx, file)
	})
	if err != nil {
		return err
	}

	report(out, "recompressed %d file(s)", len(files))
	return nil
}

// mergeExclusions combines configured and requested exclusions, trimming
// surrounding slashes and dropping duplicates.
func mergeExclusions(lists ...[]string) []string {
	var merged []string
	for _, list := range lists {
		for _, dir := range list {
			dir = strings.Trim(strings.TrimSpace(dir), "/")
			if dir != "" {
				merged = append(merged, dir)
			}
		}
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}

// validateExclusions requires every exclusion to name a directory directly
// below the image root.
func validateExclusions(root string, exclude []string) error {
	for _, dir := range exclude {
		if dir == "." || dir == ".." || strings.ContainsAny(dir, `/\`) {
			return zerr.With(zerr.Wrap(domain.ErrInvalidExclusion, "invalid image exclusion"), "exclusion", dir)
		}

		p := filepath.Join(root, dir)
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			err := zerr.Wrap(domain.ErrUnknownExclusion, "invalid image exclusion")
			err = zerr.With(err, "exclusion", dir)
			return zerr.With(err, "path", p)
		}
	}
	return nil
}
