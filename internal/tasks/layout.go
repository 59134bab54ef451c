package tasks

import (
	"path/filepath"
	"strings"

	"go.trai.ch/sitepress/internal/core/domain"
)

// layout holds the resolved directories every task reads and writes.
type layout struct {
	srcRoot      string
	srcPages     string
	srcStyles    string
	srcScripts   string
	srcFonts     string
	srcFavicon   string
	srcImages    string
	srcSpriteSvg string

	destRoot    string
	destStyles  string
	destScripts string
	destFonts   string
	destFavicon string
	destImages  string
	destSprite  string
}

// resolveLayout looks up every path key the catalog depends on, so an
// undefined key fails at startup instead of inside a running task.
func resolveLayout(paths *domain.Paths) (layout, error) {
	var l layout
	var firstErr error
	lookup := func(dst *string, key string) {
		if firstErr != nil {
			return
		}
		*dst, firstErr = paths.Lookup(key)
	}

	lookup(&l.srcRoot, "src.root")
	lookup(&l.srcPages, "src.pages")
	lookup(&l.srcStyles, "src.styles")
	lookup(&l.srcScripts, "src.scripts")
	lookup(&l.srcFonts, "src.fonts")
	lookup(&l.srcFavicon, "src.favicon")
	lookup(&l.srcImages, "src.images.all")
	lookup(&l.srcSpriteSvg, "src.images.spriteSvg")

	lookup(&l.destRoot, "dest.root")
	lookup(&l.destStyles, "dest.styles")
	lookup(&l.destScripts, "dest.scripts")
	lookup(&l.destFonts, "dest.fonts")
	lookup(&l.destFavicon, "dest.favicon")
	lookup(&l.destImages, "dest.images.all")
	lookup(&l.destSprite, "dest.images.sprite")

	return l, firstErr
}

// below returns the slash-separated path of p relative to dir, or false when
// p is not inside dir.
func below(dir, p string) (string, bool) {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
