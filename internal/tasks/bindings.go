package tasks

import (
	"slices"

	"go.trai.ch/sitepress/internal/core/domain"
)

// Bindings returns one watch binding per asset category.
func (c *Catalog) Bindings() []domain.WatchBinding {
	d := c.dirs
	names := domain.NewInternedStrings

	return []domain.WatchBinding{
		{
			Name:    "pages",
			Sources: []domain.FileSet{{Dir: d.srcPages, Patterns: []string{"**/*.html"}}},
			Targets: names([]string{Pages}),
			Reload:  domain.ReloadFull,
		},
		{
			Name:    "styles",
			Sources: []domain.FileSet{styleSources(d)},
			Targets: names([]string{Styles}),
			Reload:  domain.ReloadCSS,
		},
		{
			Name:    "scripts",
			Sources: []domain.FileSet{scriptSources(d)},
			Targets: names([]string{Scripts}),
			Reload:  domain.ReloadFull,
		},
		{
			Name:    "images",
			Sources: []domain.FileSet{imageCopy(d).From},
			Targets: names([]string{SvgOptimize, CopyImages}),
			Reload:  domain.ReloadFull,
		},
		{
			Name:    "sprite",
			Sources: []domain.FileSet{spriteSources(d)},
			Targets: names([]string{SvgOptimize, Sprite}),
			Reload:  domain.ReloadFull,
		},
		{
			Name:    "fonts",
			Sources: []domain.FileSet{fontCopy(d).From},
			Targets: names([]string{CopyFonts}),
			Reload:  domain.ReloadFull,
		},
		{
			Name:    "misc",
			Sources: sources(miscCopies(d)),
			Targets: names([]string{CopyMisc}),
			Reload:  domain.ReloadFull,
		},
	}
}

// WatchRoots returns the directories the bindings watch.
func WatchRoots(bindings []domain.WatchBinding) []string {
	var roots []string
	for _, b := range bindings {
		for _, s := range b.Sources {
			roots = append(roots, s.Dir)
		}
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}
