package tasks

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/adapters/esbuild"  //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/fs"       //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/images"   //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/logger"   //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/minify"   //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/prefixer" //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/sass"     //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/adapters/sprite"   //nolint:depguard // Wired in task wiring
	"go.trai.ch/sitepress/internal/core/ports"
)

// DepsNodeID is the unique identifier for the task dependencies Graft node.
const DepsNodeID graft.ID = "tasks.deps"

func init() {
	graft.Register(graft.Node[Deps]{
		ID:        DepsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			fs.ResolverNodeID,
			fs.SyncerNodeID,
			minify.NodeID,
			prefixer.NodeID,
			sass.NodeID,
			esbuild.BundlerNodeID,
			esbuild.CSSMinifierNodeID,
			sprite.NodeID,
			images.NodeID,
		},
		Run: func(ctx context.Context) (Deps, error) {
			var d Deps
			var err error

			if d.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
				return Deps{}, err
			}
			if d.Resolver, err = graft.Dep[ports.FileResolver](ctx); err != nil {
				return Deps{}, err
			}
			if d.Syncer, err = graft.Dep[ports.FileSyncer](ctx); err != nil {
				return Deps{}, err
			}
			if d.Minifier, err = graft.Dep[ports.Minifier](ctx); err != nil {
				return Deps{}, err
			}
			if d.Prefixer, err = graft.Dep[ports.Prefixer](ctx); err != nil {
				return Deps{}, err
			}
			if d.Styles, err = graft.Dep[ports.StyleCompiler](ctx); err != nil {
				return Deps{}, err
			}
			if d.Bundler, err = graft.Dep[ports.Bundler](ctx); err != nil {
				return Deps{}, err
			}
			if d.CSS, err = graft.Dep[ports.CSSMinifier](ctx); err != nil {
				return Deps{}, err
			}
			if d.Sprites, err = graft.Dep[ports.SpriteBuilder](ctx); err != nil {
				return Deps{}, err
			}
			if d.Images, err = graft.Dep[ports.ImageCodec](ctx); err != nil {
				return Deps{}, err
			}
			return d, nil
		},
	})
}
