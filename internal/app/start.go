package app

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/sitepress/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watch loop
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/tasks"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = watcher.DefaultDebounceWindow

// Start builds the site, serves the destination tree with live reload and
// rebuilds whatever a source change affects until ctx is cancelled.
func (a *App) Start(ctx context.Context, opts Options) error {
	project, catalog, err := a.open(opts, domain.ModeDevelopment)
	if err != nil {
		return err
	}

	if err := a.run(ctx, catalog, tasks.BuildTasks...); err != nil {
		return err
	}

	dest, err := project.Paths.Lookup("dest.root")
	if err != nil {
		return err
	}
	server, err := a.servers(ports.DevServerOptions{
		Root: dest,
		Host: project.Server.Host,
		Port: project.Server.Port,
		Open: project.Server.Open,
	})
	if err != nil {
		return err
	}
	catalog.SetReloader(server)
	defer catalog.SetReloader(nil)

	runners, err := a.newRunners(catalog, server)
	if err != nil {
		return err
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx, tasks.WatchRoots(catalog.Bindings())); err != nil {
		return err
	}

	rebuilds := &session{}
	g.Go(func() error {
		return server.Serve(ctx)
	})
	g.Go(func() error {
		debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
			for _, r := range runners {
				if r.affected(paths) {
					r.trigger(ctx, rebuilds)
				}
			}
		})
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	a.logger.Info(fmt.Sprintf("serving %s at %s", dest, server.URL()))

	err = g.Wait()
	rebuilds.close()
	return err
}

// session tracks the rebuilds of one start session. Once closed no rebuild starts.
type session struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (s *session) goRebuild(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Go(fn)
	return true
}

func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// runner rebuilds one watch binding. A change arriving while the binding
// rebuilds schedules exactly one follow-up run.
type runner struct {
	app      *App
	catalog  *tasks.Catalog
	binding  domain.WatchBinding
	matcher  *domain.WatchMatcher
	graph    *domain.Graph
	reloader ports.Reloader

	mu      sync.Mutex
	running bool
	pending bool
}

func (a *App) newRunners(catalog *tasks.Catalog, reloader ports.Reloader) ([]*runner, error) {
	build, err := catalog.Graph(tasks.BuildTasks...)
	if err != nil {
		return nil, err
	}

	bindings := catalog.Bindings()
	runners := make([]*runner, 0, len(bindings))
	for _, b := range bindings {
		m, err := b.Compile()
		if err != nil {
			return nil, err
		}
		g, err := build.Subgraph(b.Targets)
		if err != nil {
			return nil, zerr.With(err, "binding", b.Name)
		}
		runners = append(runners, &runner{
			app:      a,
			catalog:  catalog,
			binding:  b,
			matcher:  m,
			graph:    g,
			reloader: reloader,
		})
	}
	return runners, nil
}

func (r *runner) affected(paths []string) bool {
	for _, p := range paths {
		if r.matcher.Match(p) {
			return true
		}
	}
	return false
}

func (r *runner) trigger(ctx context.Context, s *session) {
	if ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.pending = true
		return
	}
	r.running = s.goRebuild(func() { r.loop(ctx) })
}

func (r *runner) loop(ctx context.Context) {
	for {
		r.rebuild(ctx)

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.running = false
			r.pending = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
	}
}

// rebuild runs the binding's tasks. Failures are logged and the session
// keeps running.
func (r *runner) rebuild(ctx context.Context) {
	r.app.logger.Debug("rebuilding " + r.binding.Name)
	if err := r.app.runGraph(ctx, r.catalog, r.graph); err != nil {
		if ctx.Err() == nil {
			r.app.logger.Error(zerr.With(err, "binding", r.binding.Name))
		}
		return
	}
	if r.binding.Reload == domain.ReloadFull {
		r.reloader.Reload()
	}
}
