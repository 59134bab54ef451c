package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/core/ports"
)

const (
	// BundlerNodeID is the unique identifier for the script bundler Graft node.
	BundlerNodeID graft.ID = "adapter.esbuild.bundler"
	// CSSMinifierNodeID is the unique identifier for the CSS minifier Graft node.
	CSSMinifierNodeID graft.ID = "adapter.esbuild.css"
)

func init() {
	graft.Register(graft.Node[ports.Bundler]{
		ID:        BundlerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Bundler, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.CSSMinifier]{
		ID:        CSSMinifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CSSMinifier, error) {
			return New(), nil
		},
	})
}
