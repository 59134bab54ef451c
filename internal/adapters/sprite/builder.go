// Package sprite merges SVG icons into one inline symbol sprite.
package sprite

import (
	"cmp"
	"slices"

	"github.com/beevik/etree"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

const svgNamespace = "http://www.w3.org/2000/svg"

var _ ports.SpriteBuilder = (*Builder)(nil)

// Builder implements ports.SpriteBuilder.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns an <svg> document holding one <symbol> per input, sorted by
// id. The output has no XML declaration so it can be inlined into pages.
func (b *Builder) Build(symbols []ports.SpriteSymbol) ([]byte, error) {
	sorted := slices.Clone(symbols)
	slices.SortStableFunc(sorted, func(x, y ports.SpriteSymbol) int {
		return cmp.Compare(x.ID, y.ID)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateSymbol, "sprite symbols must be unique"), "id", sorted[i].ID)
			err = zerr.With(err, "first", sorted[i-1].Path)
			return nil, zerr.With(err, "second", sorted[i].Path)
		}
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNamespace)

	for _, s := range sorted {
		if err := addSymbol(root, s); err != nil {
			return nil, err
		}
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrTransformFailed.Error())
	}
	return out, nil
}

func addSymbol(root *etree.Element, s ports.SpriteSymbol) error {
	src := etree.NewDocument()
	if err := src.ReadFromBytes(s.Data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", s.Path)
	}

	svg := src.Root()
	if svg == nil || svg.Tag != "svg" {
		return zerr.With(zerr.Wrap(domain.ErrTransformFailed, "file has no <svg> root element"), "path", s.Path)
	}

	// Prefixed attributes in the moved children need their namespace declarations.
	for _, attr := range svg.Attr {
		if attr.Space == "xmlns" && root.SelectAttr("xmlns:"+attr.Key) == nil {
			root.CreateAttr("xmlns:"+attr.Key, attr.Value)
		}
	}

	symbol := root.CreateElement("symbol")
	symbol.CreateAttr("id", s.ID)
	if viewBox := svg.SelectAttr("viewBox"); viewBox != nil {
		symbol.CreateAttr("viewBox", viewBox.Value)
	}

	for _, child := range svg.ChildElements() {
		symbol.AddChild(child)
	}
	return nil
}
