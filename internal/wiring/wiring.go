// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sitepress/internal/adapters/config"
	_ "go.trai.ch/sitepress/internal/adapters/devserver"
	_ "go.trai.ch/sitepress/internal/adapters/esbuild"
	_ "go.trai.ch/sitepress/internal/adapters/fs"
	_ "go.trai.ch/sitepress/internal/adapters/ghpages"
	_ "go.trai.ch/sitepress/internal/adapters/images"
	_ "go.trai.ch/sitepress/internal/adapters/linear"
	_ "go.trai.ch/sitepress/internal/adapters/logger"
	_ "go.trai.ch/sitepress/internal/adapters/minify"
	_ "go.trai.ch/sitepress/internal/adapters/prefixer"
	_ "go.trai.ch/sitepress/internal/adapters/sass"
	_ "go.trai.ch/sitepress/internal/adapters/sprite"
	_ "go.trai.ch/sitepress/internal/adapters/telemetry"
	_ "go.trai.ch/sitepress/internal/adapters/watcher"
	// Register app, engine and task nodes.
	_ "go.trai.ch/sitepress/internal/app"
	_ "go.trai.ch/sitepress/internal/engine/scheduler"
	_ "go.trai.ch/sitepress/internal/tasks"
)
