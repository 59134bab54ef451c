// Package minify implements ports.Minifier on tdewolff/minify and the
// tdewolff/parse HTML lexer.
package minify

import (
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

const mimeSVG = "image/svg+xml"

var _ ports.Minifier = (*Minifier)(nil)

// Minifier implements ports.Minifier.
//
// Pages go through the HTML lexer only: comments are dropped, whitespace is
// collapsed, and tags, attributes, entities and inline <style>, <script> and
// <svg> content keep their source bytes.
type Minifier struct {
	svg *minify.M
}

// New creates a Minifier.
func New() *Minifier {
	images := minify.New()
	images.Add(mimeSVG, &svg.Minifier{})

	return &Minifier{svg: images}
}

// HTML collapses whitespace and strips comments.
func (m *Minifier) HTML(w io.Writer, r io.Reader) error {
	if err := writePage(w, r); err != nil {
		return zerr.Wrap(err, domain.ErrTransformFailed.Error())
	}
	return nil
}

// SVG minifies an SVG document.
func (m *Minifier) SVG(w io.Writer, r io.Reader) error {
	if err := m.svg.Minify(mimeSVG, w, r); err != nil {
		return zerr.Wrap(err, domain.ErrTransformFailed.Error())
	}
	return nil
}
