package ports

import "io"

// Minifier rewrites markup without changing its meaning.
//
//go:generate mockgen -source=minifier.go -destination=mocks/mock_minifier.go -package=mocks
type Minifier interface {
	// HTML collapses whitespace and strips comments. Inline styles and
	// scripts are copied through.
	HTML(w io.Writer, r io.Reader) error
	// SVG optimizes an SVG document.
	SVG(w io.Writer, r io.Reader) error
}

// Prefixer adds vendor prefixes to compiled CSS.
type Prefixer interface {
	Prefix(css []byte) ([]byte, error)
}
