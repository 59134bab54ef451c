// Package app implements the application layer for sitepress.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/engine/scheduler"
	"go.trai.ch/sitepress/internal/tasks"
	"go.trai.ch/zerr"
)

// Dependencies are the adapters the App is built from.
type Dependencies struct {
	Loader     ports.ConfigLoader
	Logger     ports.Logger
	Tasks      tasks.Deps
	Schedulers scheduler.Factory
	Servers    ports.DevServerFactory
	Watchers   ports.WatcherFactory
	Publisher  ports.Publisher
	Renderer   ports.Renderer
}

// App represents the main application logic.
type App struct {
	loader     ports.ConfigLoader
	logger     ports.Logger
	deps       tasks.Deps
	schedulers scheduler.Factory
	servers    ports.DevServerFactory
	watchers   ports.WatcherFactory
	publisher  ports.Publisher
	renderer   ports.Renderer

	getenv   func(string) string
	debounce time.Duration
}

// New creates a new App instance.
func New(deps Dependencies) *App {
	return &App{
		loader:     deps.Loader,
		logger:     deps.Logger,
		deps:       deps.Tasks,
		schedulers: deps.Schedulers,
		servers:    deps.Servers,
		watchers:   deps.Watchers,
		publisher:  deps.Publisher,
		renderer:   deps.Renderer,
		getenv:     os.Getenv,
		debounce:   defaultDebounce,
	}
}

// WithGetenv replaces the environment lookup used for deploy tokens.
// This is primarily used for testing.
func (a *App) WithGetenv(getenv func(string) string) *App {
	a.getenv = getenv
	return a
}

// WithDebounce sets the window in which file events are coalesced.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// Options are the global command line options.
type Options struct {
	Root       string
	ConfigFile string
	JSON       bool
}

// Build runs a full build of the destination tree. It defaults to production mode.
func (a *App) Build(ctx context.Context, opts Options) error {
	project, catalog, err := a.open(opts, domain.ModeProduction)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := a.run(ctx, catalog, tasks.BuildTasks...); err != nil {
		return err
	}

	dest, err := project.Paths.Lookup("dest.root")
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("built %s in %s mode (%s)", dest, project.Mode, time.Since(start).Round(time.Millisecond)))
	return nil
}

// Clean removes the destination tree.
func (a *App) Clean(ctx context.Context, opts Options) error {
	_, catalog, err := a.open(opts, domain.ModeDevelopment)
	if err != nil {
		return err
	}
	return a.run(ctx, catalog, tasks.Clean)
}

// ImageJob names one of the on-demand image tasks.
type ImageJob string

// Image jobs.
const (
	JobWebP     ImageJob = tasks.WebP
	JobAVIF     ImageJob = tasks.AVIF
	JobImagemin ImageJob = tasks.Imagemin
)

// Images runs an on-demand image job. Exclusions are directory names below
// src.images.all and add to the configured ones; imagemin ignores them.
func (a *App) Images(ctx context.Context, opts Options, job ImageJob, exclude []string) error {
	switch job {
	case JobWebP, JobAVIF, JobImagemin:
	default:
		return zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "unknown image job"), "job", string(job))
	}

	_, catalog, err := a.open(opts, domain.ModeDevelopment, exclude...)
	if err != nil {
		return err
	}
	return a.run(ctx, catalog, string(job))
}

// Deploy publishes the destination tree to the configured git branch.
func (a *App) Deploy(ctx context.Context, opts Options) error {
	project, _, err := a.open(opts, domain.ModeProduction)
	if err != nil {
		return err
	}

	dest, err := project.Paths.Lookup("dest.root")
	if err != nil {
		return err
	}

	token := a.getenv(domain.TokenEnvVar)
	if token == "" {
		token = a.getenv(domain.FallbackTokenEnvVar)
	}

	d := project.Deploy
	res, err := a.publisher.Publish(ctx, ports.PublishRequest{
		Dir:         dest,
		RepoDir:     project.Root,
		Remote:      d.Remote,
		URL:         d.URL,
		Branch:      d.Branch,
		Message:     d.Message,
		AuthorName:  d.AuthorName,
		AuthorEmail: d.AuthorEmail,
		Token:       token,
	})
	if err != nil {
		return err
	}

	if res.Commit == "" {
		a.logger.Info(fmt.Sprintf("branch %s is up to date, nothing to publish", d.Branch))
		return nil
	}
	a.logger.Info(fmt.Sprintf("published %d file(s) to %s as %s", res.Files, d.Branch, shortHash(res.Commit)))
	return nil
}

// Close stops the renderer and releases the stylesheet compiler.
func (a *App) Close() error {
	var errs error
	if a.renderer != nil {
		errs = errors.Join(errs, a.renderer.Stop())
	}
	if a.deps.Styles != nil {
		errs = errors.Join(errs, a.deps.Styles.Close())
	}
	return errs
}

// open loads the project and its task catalog.
func (a *App) open(opts Options, mode domain.Mode, exclude ...string) (*domain.Project, *tasks.Catalog, error) {
	a.logger.SetJSON(opts.JSON)

	project, err := a.loader.Load(ports.LoadOptions{
		Root:        opts.Root,
		File:        opts.ConfigFile,
		DefaultMode: mode,
	})
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}
	a.logger.Debug(fmt.Sprintf("loaded project %s in %s mode", project.Root, project.Mode))

	catalog, err := tasks.NewCatalog(project, a.deps, exclude...)
	if err != nil {
		return nil, nil, err
	}
	return project, catalog, nil
}

// run executes the named tasks and everything they depend on within the selection.
func (a *App) run(ctx context.Context, catalog *tasks.Catalog, names ...string) error {
	graph, err := catalog.Graph(names...)
	if err != nil {
		return err
	}
	return a.runGraph(ctx, catalog, graph)
}

func (a *App) runGraph(ctx context.Context, catalog *tasks.Catalog, graph *domain.Graph) error {
	if err := a.schedulers(catalog).Run(ctx, graph, nil, runtime.NumCPU()); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
