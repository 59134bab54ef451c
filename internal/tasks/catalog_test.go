package tasks_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/adapters/esbuild"
	"go.trai.ch/sitepress/internal/adapters/fs"
	"go.trai.ch/sitepress/internal/adapters/minify"
	"go.trai.ch/sitepress/internal/adapters/prefixer"
	"go.trai.ch/sitepress/internal/adapters/sprite"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports/mocks"
	"go.trai.ch/sitepress/internal/tasks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root    string
	project *domain.Project
	deps    tasks.Deps

	log     *mocks.MockLogger
	styles  *mocks.MockStyleCompiler
	bundler *mocks.MockBundler
	codec   *mocks.MockImageCodec
}

func newFixture(t *testing.T, mode domain.Mode) *fixture {
	t.Helper()
	root := t.TempDir()
	return newFixtureWithTrees(t, root, mode, domain.DefaultSource(), domain.DefaultDestination())
}

func newFixtureWithTrees(t *testing.T, root string, mode domain.Mode, src, dest domain.Tree) *fixture {
	t.Helper()

	paths, err := domain.NewPaths(root, src, dest)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	f := &fixture{
		root: root,
		project: &domain.Project{
			Root:    root,
			Mode:    mode,
			Paths:   paths,
			Scripts: domain.DefaultScriptEntries(),
			Styles:  domain.StyleSettings{IncludePaths: []string{filepath.Join(root, "node_modules")}},
			Changed: domain.ChangeByMtime,
		},
		log:     mocks.NewMockLogger(ctrl),
		styles:  mocks.NewMockStyleCompiler(ctrl),
		bundler: mocks.NewMockBundler(ctrl),
		codec:   mocks.NewMockImageCodec(ctrl),
	}
	f.deps = tasks.Deps{
		Logger:   f.log,
		Resolver: fs.NewResolver(fs.NewWalker()),
		Syncer:   fs.NewSyncer(fs.NewHasher()),
		Minifier: minify.New(),
		Prefixer: prefixer.New(),
		Styles:   f.styles,
		CSS:      esbuild.New(),
		Bundler:  f.bundler,
		Sprites:  sprite.NewBuilder(),
		Images:   f.codec,
	}
	return f
}

func (f *fixture) catalog(t *testing.T, exclude ...string) *tasks.Catalog {
	t.Helper()
	c, err := tasks.NewCatalog(f.project, f.deps, exclude...)
	require.NoError(t, err)
	return c
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) write(t *testing.T, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := f.path(name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(rel))
	require.NoError(t, err)
	return string(data)
}

func run(t *testing.T, c *tasks.Catalog, name string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := c.Execute(context.Background(), &domain.Task{Name: domain.NewInternedString(name)}, &out)
	return out.String(), err
}

func TestCatalog_BuildGraph(t *testing.T) {
	c := newFixture(t, domain.ModeProduction).catalog(t)

	g, err := c.Graph(tasks.BuildTasks...)
	require.NoError(t, err)
	assert.Equal(t, len(tasks.BuildTasks), g.TaskCount())

	var order []string
	for task := range g.Walk() {
		order = append(order, task.Name.String())
	}
	require.Len(t, order, len(tasks.BuildTasks))
	assert.Equal(t, []string{tasks.Clean, tasks.SvgOptimize}, order[:2])
	assert.ElementsMatch(t,
		[]string{tasks.CopyMisc, tasks.CopyFonts, tasks.CopyImages, tasks.Sprite, tasks.Styles, tasks.Scripts, tasks.Pages},
		order[2:])

	name := domain.NewInternedString
	assert.True(t, g.Ordered(name(tasks.Pages), name(tasks.Clean)))
	assert.True(t, g.Ordered(name(tasks.Sprite), name(tasks.SvgOptimize)))
	assert.False(t, g.Ordered(name(tasks.Pages), name(tasks.Styles)))
	assert.Len(t, g.Dependents(name(tasks.SvgOptimize)), 7)
}

func TestCatalog_SelectionDropsOuterDependencies(t *testing.T) {
	c := newFixture(t, domain.ModeDevelopment).catalog(t)

	g, err := c.Graph(tasks.SvgOptimize, tasks.CopyImages)
	require.NoError(t, err)

	svg, ok := g.GetTask(domain.NewInternedString(tasks.SvgOptimize))
	require.True(t, ok)
	assert.Empty(t, svg.Dependencies, "clean is not part of the selection")

	images, ok := g.GetTask(domain.NewInternedString(tasks.CopyImages))
	require.True(t, ok)
	assert.Equal(t, []string{tasks.SvgOptimize}, domain.Strings(images.Dependencies))
}

func TestCatalog_OnDemandGraphs(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{"src/img/hero.jpg": "x"})
	c := f.catalog(t)

	for _, name := range []string{tasks.WebP, tasks.AVIF, tasks.Imagemin} {
		g, err := c.Graph(name)
		require.NoError(t, err, name)
		assert.Equal(t, 1, g.TaskCount())
	}
}

func TestCatalog_UnknownTask(t *testing.T) {
	c := newFixture(t, domain.ModeDevelopment).catalog(t)

	_, err := c.Graph("deploy")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = run(t, c, "deploy")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCatalog_OverlappingDestinations(t *testing.T) {
	dest := domain.DefaultDestination()
	dest.Favicon = "build/img"

	f := newFixtureWithTrees(t, t.TempDir(), domain.ModeProduction, domain.DefaultSource(), dest)
	c := f.catalog(t)

	_, err := c.Graph(tasks.BuildTasks...)
	require.ErrorIs(t, err, domain.ErrOverlappingOutputs)
}

func TestCatalog_UndefinedPath(t *testing.T) {
	src := domain.DefaultSource()
	src.Styles = ""

	root := t.TempDir()
	paths, err := domain.NewPaths(root, src, domain.DefaultDestination())
	require.NoError(t, err)

	_, err = tasks.NewCatalog(&domain.Project{Root: root, Paths: paths}, tasks.Deps{})
	require.ErrorIs(t, err, domain.ErrUndefinedPath)
}

func TestCatalog_Exclusions(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.project.ImageExclude = []string{"bg"}
	f.write(t, map[string]string{
		"src/img/bg/slide.png": "x",
		"src/img/slides/a.png": "x",
	})

	c := f.catalog(t, "/slides/", "bg")
	assert.Equal(t, []string{"bg", "slides"}, c.Exclusions())

	_, err := c.Graph(tasks.WebP)
	require.NoError(t, err)

	tests := []struct {
		name    string
		exclude string
		want    error
	}{
		{"missing directory", "banners", domain.ErrUnknownExclusion},
		{"nested path", "bg/large", domain.ErrInvalidExclusion},
		{"parent", "..", domain.ErrInvalidExclusion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.catalog(t, tt.exclude)

			_, err := c.Graph(tasks.AVIF)
			require.ErrorIs(t, err, tt.want)

			_, err = c.Graph(tasks.BuildTasks...)
			require.NoError(t, err, "only the conversions validate exclusions")
		})
	}
}

func TestCatalog_Bindings(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	c := f.catalog(t)

	build, err := c.Graph(tasks.BuildTasks...)
	require.NoError(t, err)

	bindings := c.Bindings()
	matchers := make(map[string]*domain.WatchMatcher, len(bindings))
	for _, b := range bindings {
		m, err := b.Compile()
		require.NoError(t, err, b.Name)
		matchers[b.Name] = m

		_, err = build.Subgraph(b.Targets)
		require.NoError(t, err, b.Name)
	}

	tests := []struct {
		path string
		want []string
	}{
		{"src/html/index.html", []string{"pages"}},
		{"src/html/partials/header.html", []string{"pages"}},
		{"src/sass/blocks/_header.scss", []string{"styles"}},
		{"src/js/utils/modal.js", []string{"scripts"}},
		{"src/js/data.json", []string{"scripts"}},
		{"src/img/hero.jpg", []string{"images"}},
		{"src/img/sprite/svg/cart.svg", []string{"sprite"}},
		{"src/img/sprite/logo.svg", []string{"images"}},
		{"src/fonts/inter.woff2", []string{"fonts"}},
		{"src/favicon/icon.png", []string{"misc"}},
		{"src/video/intro.mp4", []string{"misc"}},
		{"src/mail.php", []string{"misc"}},
		{"src/notes.txt", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got []string
			for _, b := range bindings {
				if matchers[b.Name].Match(f.path(tt.path)) {
					got = append(got, b.Name)
				}
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	assert.Contains(t, tasks.WatchRoots(bindings), f.path("src"))
	assert.Contains(t, tasks.WatchRoots(bindings), f.path("src/img/sprite/svg"))
}
