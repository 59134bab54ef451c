package tasks

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	styleFile    = "style.css"
	styleMinFile = "style.min.css"
)

var styleOutputs = []string{styleFile, styleFile + ".map", styleMinFile, styleMinFile + ".map"}

func styleSources(d layout) domain.FileSet {
	return domain.FileSet{Dir: d.srcStyles, Patterns: []string{"**/*.scss"}}
}

// runStyles compiles, prefixes and minifies the stylesheet. In development
// both stylesheets get a source map and connected pages swap them in place.
func (c *Catalog) runStyles(ctx context.Context, out io.Writer) error {
	entry := filepath.Join(c.dirs.srcStyles, domain.StyleEntry)
	if _, err := os.Stat(entry); os.IsNotExist(err) {
		report(out, "no stylesheet entry at %s", entry)
		return nil
	}

	dev := c.project.Mode.IsDevelopment()

	compiled, err := c.deps.Styles.Compile(ctx, ports.StyleRequest{
		Entry:        entry,
		IncludePaths: c.project.Styles.IncludePaths,
		SourceMap:    dev,
		Binary:       c.project.Styles.Compiler,
	})
	if err != nil {
		return err
	}

	css, err := c.deps.Prefixer.Prefix([]byte(compiled.CSS))
	if err != nil {
		return zerr.With(err, "path", entry)
	}

	minified, err := c.deps.CSS.MinifyCSS(css, styleFile, dev)
	if err != nil {
		return zerr.With(err, "path", entry)
	}

	files := map[string][]byte{
		styleFile:    css,
		styleMinFile: minified.Code,
	}
	if dev {
		files[styleFile] = withMapComment(css, styleFile+".map")
		files[styleFile+".map"] = []byte(compiled.SourceMap)
		files[styleMinFile] = withMapComment(minified.Code, styleMinFile+".map")
		files[styleMinFile+".map"] = minified.Map
	}

	written := 0
	for _, name := range styleOutputs {
		data, ok := files[name]
		if !ok {
			continue
		}
		changed, err := c.deps.Syncer.WriteIfChanged(filepath.Join(c.dirs.destStyles, name), data)
		if err != nil {
			return err
		}
		if changed {
			written++
		}
	}
	report(out, "wrote %d of %d file(s)", written, len(files))

	if dev {
		c.currentReloader().ReloadCSS(
			filepath.Join(c.dirs.destStyles, styleFile),
			filepath.Join(c.dirs.destStyles, styleMinFile),
		)
	}
	return nil
}

// withMapComment appends a sourceMappingURL comment on its own line.
func withMapComment(css []byte, mapFile string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(css) + len(mapFile) + 32)
	buf.Write(css)
	if len(css) > 0 && css[len(css)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("/*# sourceMappingURL=" + mapFile + " */\n")
	return buf.Bytes()
}
