// Package tasks defines the site's build tasks, the graphs they form and the
// watch bindings that rebuild them.
package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task names.
const (
	Clean       = "clean"
	SvgOptimize = "svg-optimize"
	CopyMisc    = "copy-misc"
	CopyFonts   = "copy-fonts"
	CopyImages  = "copy-images"
	Sprite      = "sprite"
	Styles      = "styles"
	Scripts     = "scripts"
	Pages       = "pages"
	WebP        = "webp"
	AVIF        = "avif"
	Imagemin    = "imagemin"
)

// BuildTasks are the tasks of a full build.
var BuildTasks = []string{Clean, SvgOptimize, CopyMisc, CopyFonts, CopyImages, Sprite, Styles, Scripts, Pages}

// Deps are the adapters the tasks delegate to.
type Deps struct {
	Logger   ports.Logger
	Resolver ports.FileResolver
	Syncer   ports.FileSyncer
	Minifier ports.Minifier
	Prefixer ports.Prefixer
	Styles   ports.StyleCompiler
	CSS      ports.CSSMinifier
	Bundler  ports.Bundler
	Sprites  ports.SpriteBuilder
	Images   ports.ImageCodec
}

type runFunc func(ctx context.Context, out io.Writer) error

type definition struct {
	task domain.Task
	run  runFunc
	// mu keeps two graphs from running the task at the same time.
	mu sync.Mutex
}

// Catalog holds the task definitions of one project and executes them.
type Catalog struct {
	project *domain.Project
	deps    Deps
	dirs    layout
	exclude []string

	mu       sync.RWMutex
	reloader ports.Reloader

	defs map[domain.InternedString]*definition
}

var _ ports.Executor = (*Catalog)(nil)

// NewCatalog resolves the project's paths and defines every task. exclude
// adds image exclusions to the ones configured in the project.
func NewCatalog(project *domain.Project, deps Deps, exclude ...string) (*Catalog, error) {
	dirs, err := resolveLayout(project.Paths)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		project:  project,
		deps:     deps,
		dirs:     dirs,
		exclude:  mergeExclusions(project.ImageExclude, exclude),
		reloader: noopReloader{},
	}
	c.define()
	return c, nil
}

func (c *Catalog) define() {
	after := func(deps ...string) []domain.InternedString { return domain.NewInternedStrings(deps) }
	d := c.dirs

	c.defs = make(map[domain.InternedString]*definition)
	add := func(task domain.Task, run runFunc) {
		c.defs[task.Name] = &definition{task: task, run: run}
	}

	add(domain.Task{
		Name:    domain.NewInternedString(Clean),
		Outputs: []domain.FileSet{{Dir: d.destRoot, Patterns: []string{"**"}}},
	}, c.runClean)

	add(domain.Task{
		Name:         domain.NewInternedString(SvgOptimize),
		Inputs:       []domain.FileSet{svgSet(d)},
		Outputs:      []domain.FileSet{svgSet(d)},
		Dependencies: after(Clean),
	}, c.runSvgOptimize)

	misc := miscCopies(d)
	add(domain.Task{
		Name:         domain.NewInternedString(CopyMisc),
		Inputs:       sources(misc),
		Outputs:      targets(misc),
		Dependencies: after(SvgOptimize),
	}, c.copyTask(misc))

	fonts := []copySpec{fontCopy(d)}
	add(domain.Task{
		Name:         domain.NewInternedString(CopyFonts),
		Inputs:       sources(fonts),
		Outputs:      targets(fonts),
		Dependencies: after(SvgOptimize),
	}, c.copyTask(fonts))

	images := []copySpec{imageCopy(d)}
	add(domain.Task{
		Name:         domain.NewInternedString(CopyImages),
		Inputs:       sources(images),
		Outputs:      targets(images),
		Dependencies: after(SvgOptimize),
	}, c.copyTask(images))

	add(domain.Task{
		Name:         domain.NewInternedString(Sprite),
		Inputs:       []domain.FileSet{spriteSources(d)},
		Outputs:      []domain.FileSet{{Dir: d.destSprite, Patterns: []string{domain.SpriteFileName}}},
		Dependencies: after(SvgOptimize),
	}, c.runSprite)

	add(domain.Task{
		Name:         domain.NewInternedString(Styles),
		Inputs:       []domain.FileSet{styleSources(d)},
		Outputs:      []domain.FileSet{{Dir: d.destStyles, Patterns: styleOutputs}},
		Dependencies: after(SvgOptimize),
	}, c.runStyles)

	add(domain.Task{
		Name:         domain.NewInternedString(Scripts),
		Inputs:       []domain.FileSet{scriptSources(d)},
		Outputs:      []domain.FileSet{{Dir: d.destScripts, Patterns: []string{"*.min.js", "*.min.js.map"}}},
		Dependencies: after(SvgOptimize),
	}, c.runScripts)

	add(domain.Task{
		Name:         domain.NewInternedString(Pages),
		Inputs:       []domain.FileSet{pageSources(d)},
		Outputs:      []domain.FileSet{{Dir: d.destRoot, Patterns: []string{"*.html"}}},
		Dependencies: after(SvgOptimize),
	}, c.runPages)

	add(domain.Task{
		Name:    domain.NewInternedString(WebP),
		Inputs:  []domain.FileSet{c.rasterSources()},
		Outputs: []domain.FileSet{{Dir: d.srcImages, Patterns: []string{"**/*.webp"}}},
	}, c.convertTask(ports.FormatWebP))

	add(domain.Task{
		Name:    domain.NewInternedString(AVIF),
		Inputs:  []domain.FileSet{c.rasterSources()},
		Outputs: []domain.FileSet{{Dir: d.srcImages, Patterns: []string{"**/*.avif"}}},
	}, c.convertTask(ports.FormatAVIF))

	add(domain.Task{
		Name:    domain.NewInternedString(Imagemin),
		Inputs:  []domain.FileSet{builtRasters(d)},
		Outputs: []domain.FileSet{builtRasters(d)},
	}, c.runImagemin)
}

// Graph returns a validated graph of the named tasks. Dependencies on tasks
// outside the selection are dropped. Selecting an image conversion validates
// the exclusions against the image tree.
func (c *Catalog) Graph(names ...string) (*domain.Graph, error) {
	selected := make(map[domain.InternedString]bool, len(names))
	for _, name := range names {
		key := domain.NewInternedString(name)
		if _, ok := c.defs[key]; !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "cannot build task graph"), "task", name)
		}
		selected[key] = true
		if name == WebP || name == AVIF {
			if err := validateExclusions(c.dirs.srcImages, c.exclude); err != nil {
				return nil, err
			}
		}
	}

	g := domain.NewGraph()
	for _, name := range names {
		task := c.defs[domain.NewInternedString(name)].task
		deps := make([]domain.InternedString, 0, len(task.Dependencies))
		for _, dep := range task.Dependencies {
			if selected[dep] {
				deps = append(deps, dep)
			}
		}
		task.Dependencies = deps
		if err := g.AddTask(&task); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Execute runs the named task. Progress lines are written to out.
func (c *Catalog) Execute(ctx context.Context, task *domain.Task, out io.Writer) error {
	def, ok := c.defs[task.Name]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "cannot execute task"), "task", task.Name.String())
	}

	def.mu.Lock()
	defer def.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return def.run(ctx, out)
}

// SetReloader sets where the styles task pushes CSS reloads. A nil reloader
// disables the push.
func (c *Catalog) SetReloader(r ports.Reloader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == nil {
		r = noopReloader{}
	}
	c.reloader = r
}

func (c *Catalog) currentReloader() ports.Reloader {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reloader
}

// Exclusions returns the image sub-directories skipped by the conversions.
func (c *Catalog) Exclusions() []string {
	return c.exclude
}

func report(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

type noopReloader struct{}

func (noopReloader) Reload() {}

func (noopReloader) ReloadCSS(...string) {}
