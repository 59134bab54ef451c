package domain

import (
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// ImagePaths holds the image directories of one side of the path tree.
type ImagePaths struct {
	All       string
	Sprite    string
	SpriteSvg string
}

// Tree is one side (src or dest) of the path tree.
// An empty leaf is undefined and cannot be looked up.
type Tree struct {
	Root    string
	Pages   string
	Styles  string
	Scripts string
	Fonts   string
	Favicon string
	Images  ImagePaths
}

// DefaultSource returns the default source tree.
func DefaultSource() Tree {
	return Tree{
		Root:    "src",
		Pages:   "src/html",
		Styles:  "src/sass",
		Scripts: "src/js",
		Fonts:   "src/fonts",
		Favicon: "src/favicon",
		Images: ImagePaths{
			All:       "src/img",
			Sprite:    "src/img/sprite",
			SpriteSvg: "src/img/sprite/svg",
		},
	}
}

// DefaultDestination returns the default destination tree.
// Pages are written to the destination root, so there is no dest.pages leaf.
func DefaultDestination() Tree {
	return Tree{
		Root:    "build",
		Styles:  "build/css",
		Scripts: "build/js",
		Fonts:   "build/fonts",
		Favicon: "build/favicon",
		Images: ImagePaths{
			All:       "build/img",
			Sprite:    "build/img/sprite",
			SpriteSvg: "build/img/sprite/svg",
		},
	}
}

// Merge returns t with every non-empty leaf of override applied.
func (t Tree) Merge(override Tree) Tree {
	pick := func(base, o string) string {
		if o != "" {
			return o
		}
		return base
	}
	return Tree{
		Root:    pick(t.Root, override.Root),
		Pages:   pick(t.Pages, override.Pages),
		Styles:  pick(t.Styles, override.Styles),
		Scripts: pick(t.Scripts, override.Scripts),
		Fonts:   pick(t.Fonts, override.Fonts),
		Favicon: pick(t.Favicon, override.Favicon),
		Images: ImagePaths{
			All:       pick(t.Images.All, override.Images.All),
			Sprite:    pick(t.Images.Sprite, override.Images.Sprite),
			SpriteSvg: pick(t.Images.SpriteSvg, override.Images.SpriteSvg),
		},
	}
}

func (t Tree) leaves(side string) map[string]string {
	return map[string]string{
		side + ".root":             t.Root,
		side + ".pages":            t.Pages,
		side + ".styles":           t.Styles,
		side + ".scripts":          t.Scripts,
		side + ".fonts":            t.Fonts,
		side + ".favicon":          t.Favicon,
		side + ".images.all":       t.Images.All,
		side + ".images.sprite":    t.Images.Sprite,
		side + ".images.spriteSvg": t.Images.SpriteSvg,
	}
}

// Paths is the immutable path configuration shared by every task.
type Paths struct {
	index map[string]string
}

// NewPaths builds the path tree. Relative leaves are resolved against root.
// The source and destination roots are mandatory.
func NewPaths(root string, src, dest Tree) (*Paths, error) {
	if src.Root == "" {
		return nil, zerr.With(zerr.Wrap(ErrEmptyPath, "invalid path configuration"), "key", "src.root")
	}
	if dest.Root == "" {
		return nil, zerr.With(zerr.Wrap(ErrEmptyPath, "invalid path configuration"), "key", "dest.root")
	}

	index := make(map[string]string, 18)
	for _, leaves := range []map[string]string{src.leaves("src"), dest.leaves("dest")} {
		for key, value := range leaves {
			if value == "" {
				continue
			}
			if !filepath.IsAbs(value) {
				value = filepath.Join(root, value)
			}
			index[key] = filepath.Clean(value)
		}
	}

	return &Paths{index: index}, nil
}

// Lookup returns the resolved directory for a dotted key such as
// "src.images.spriteSvg". Unknown or undefined keys fail with ErrUndefinedPath.
func (p *Paths) Lookup(key string) (string, error) {
	v, ok := p.index[key]
	if !ok {
		return "", zerr.With(zerr.Wrap(ErrUndefinedPath, "path lookup failed"), "key", key)
	}
	return v, nil
}

// Keys returns every defined key in sorted order.
func (p *Paths) Keys() []string {
	keys := make([]string, 0, len(p.index))
	for k := range p.index {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
