package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepress/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/adapters/ghpages"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/engine/scheduler"
	"go.trai.ch/sitepress/internal/tasks"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			tasks.DepsNodeID,
			scheduler.NodeID,
			devserver.NodeID,
			watcher.NodeID,
			ghpages.NodeID,
			linear.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	deps, err := graft.Dep[tasks.Deps](ctx)
	if err != nil {
		return nil, err
	}

	schedulers, err := graft.Dep[scheduler.Factory](ctx)
	if err != nil {
		return nil, err
	}

	servers, err := graft.Dep[ports.DevServerFactory](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	publisher, err := graft.Dep[ports.Publisher](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	return New(Dependencies{
		Loader:     loader,
		Logger:     log,
		Tasks:      deps,
		Schedulers: schedulers,
		Servers:    servers,
		Watchers:   watchers,
		Publisher:  publisher,
		Renderer:   renderer,
	}), nil
}
