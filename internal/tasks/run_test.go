package tasks_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/core/ports/mocks"
	"go.trai.ch/sitepress/internal/tasks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestClean(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"build/index.html":  "old",
		"build/css/old.css": "old",
		"src/html/a.html":   "keep",
	})

	out, err := run(t, f.catalog(t), tasks.Clean)
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
	assert.NoDirExists(t, f.path("build"))
	assert.FileExists(t, f.path("src/html/a.html"))

	_, err = run(t, f.catalog(t), tasks.Clean)
	require.NoError(t, err, "a missing destination is already clean")
}

func TestClean_RefusesSourceTree(t *testing.T) {
	dest := domain.DefaultDestination()
	dest.Root = "."

	f := newFixtureWithTrees(t, t.TempDir(), domain.ModeProduction, domain.DefaultSource(), dest)
	f.write(t, map[string]string{"src/html/a.html": "keep"})

	_, err := run(t, f.catalog(t), tasks.Clean)
	require.ErrorIs(t, err, domain.ErrCleanFailed)
	assert.FileExists(t, f.path("src/html/a.html"))
}

func TestPages(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"src/html/index.html": "<!DOCTYPE html>\n<html>\n  <body>\n    <!-- hero -->\n    <p class=\"lead\">  Hello  </p>\n" +
			"  </body>\n</html>\n",
		"src/html/partials/header.html": "<header></header>",
	})

	out, err := run(t, f.catalog(t), tasks.Pages)
	require.NoError(t, err)
	assert.Equal(t, "wrote 1 of 1 page(s)\n", out)

	assert.Equal(t, `<!DOCTYPE html><html><body><p class="lead">Hello</p></body></html>`, f.read(t, "build/index.html"))
	assert.NoFileExists(t, f.path("build/header.html"))
	assert.NoFileExists(t, f.path("build/partials/header.html"))
}

func TestCopyTasks(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"src/favicon/icon.png":         "icon",
		"src/favicon/site.webmanifest": "{}",
		"src/video/intro.mp4":          "mp4",
		"src/data/items.json":          "[]",
		"src/mail.php":                 "<?php",
		"src/lib/helper.php":           "<?php",
		"src/notes.txt":                "notes",
		"src/fonts/inter.woff2":        "font",
		"src/fonts/inter.ttf":          "ttf",
		"src/img/hero.jpg":             "jpg",
		"src/img/bg/slide.webp":        "webp",
		"src/img/sprite/svg/cart.svg":  "<svg/>",
		"src/img/sprite/logo.svg":      "<svg/>",
		"src/img/readme.md":            "md",
	})
	c := f.catalog(t)

	out, err := run(t, c, tasks.CopyMisc)
	require.NoError(t, err)
	assert.Equal(t, "copied 5 of 5 file(s)\n", out)
	for _, p := range []string{"build/favicon/icon.png", "build/favicon/site.webmanifest", "build/video/intro.mp4", "build/data/items.json", "build/mail.php"} {
		assert.FileExists(t, f.path(p))
	}
	assert.NoFileExists(t, f.path("build/lib/helper.php"))
	assert.NoFileExists(t, f.path("build/notes.txt"))

	_, err = run(t, c, tasks.CopyFonts)
	require.NoError(t, err)
	assert.FileExists(t, f.path("build/fonts/inter.woff2"))
	assert.NoFileExists(t, f.path("build/fonts/inter.ttf"))

	_, err = run(t, c, tasks.CopyImages)
	require.NoError(t, err)
	assert.FileExists(t, f.path("build/img/hero.jpg"))
	assert.FileExists(t, f.path("build/img/bg/slide.webp"))
	assert.FileExists(t, f.path("build/img/sprite/logo.svg"))
	assert.NoFileExists(t, f.path("build/img/sprite/svg/cart.svg"))
	assert.NoFileExists(t, f.path("build/img/readme.md"))

	out, err = run(t, c, tasks.CopyImages)
	require.NoError(t, err)
	assert.Equal(t, "copied 0 of 3 file(s)\n", out, "unchanged files are skipped")
}

func TestSvgOptimize(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	source := "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 24 24\">\n" +
		"  <!-- exported -->\n  <path d=\"M 0 0 L 24 24\"/>\n</svg>\n"
	f.write(t, map[string]string{"src/img/icons/cart.svg": source})
	c := f.catalog(t)

	out, err := run(t, c, tasks.SvgOptimize)
	require.NoError(t, err)
	assert.Equal(t, "optimized 1 of 1 file(s)\n", out)

	optimized := f.read(t, "src/img/icons/cart.svg")
	assert.Less(t, len(optimized), len(source))
	assert.NotContains(t, optimized, "exported")

	info, err := os.Stat(f.path("src/img/icons/cart.svg"))
	require.NoError(t, err)

	out, err = run(t, c, tasks.SvgOptimize)
	require.NoError(t, err)
	assert.Equal(t, "optimized 0 of 1 file(s)\n", out)

	again, err := os.Stat(f.path("src/img/icons/cart.svg"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime(), "optimized files are not rewritten")
}

func TestSprite(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"src/img/sprite/svg/cart.svg":  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M0 0"/></svg>`,
		"src/img/sprite/svg/arrow.svg": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8 8"><path d="M1 1"/></svg>`,
	})

	out, err := run(t, f.catalog(t), tasks.Sprite)
	require.NoError(t, err)
	assert.Contains(t, out, "2 symbol(s)")

	assert.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg">`+
			`<symbol id="arrow" viewBox="0 0 8 8"><path d="M1 1"/></symbol>`+
			`<symbol id="cart" viewBox="0 0 24 24"><path d="M0 0"/></symbol>`+
			`</svg>`,
		f.read(t, "build/img/sprite/sprite.svg"))
}

func TestSprite_NoSources(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)

	out, err := run(t, f.catalog(t), tasks.Sprite)
	require.NoError(t, err)
	assert.Equal(t, "no sprite sources\n", out)
	assert.NoFileExists(t, f.path("build/img/sprite/sprite.svg"))
}

func styleRequest(f *fixture, sourceMap bool) ports.StyleRequest {
	return ports.StyleRequest{
		Entry:        f.path("src/sass/style.scss"),
		IncludePaths: []string{f.path("node_modules")},
		SourceMap:    sourceMap,
	}
}

func TestStyles_Development(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{"src/sass/style.scss": ".btn { appearance: none; }"})

	f.styles.EXPECT().Compile(gomock.Any(), styleRequest(f, true)).Return(ports.StyleResult{
		CSS:       ".btn {\n  appearance: none;\n}",
		SourceMap: `{"version":3,"mappings":"AAAA"}`,
	}, nil)

	reloader := mocks.NewMockReloader(gomock.NewController(t))
	reloader.EXPECT().ReloadCSS(f.path("build/css/style.css"), f.path("build/css/style.min.css"))

	c := f.catalog(t)
	c.SetReloader(reloader)

	out, err := run(t, c, tasks.Styles)
	require.NoError(t, err)
	assert.Equal(t, "wrote 4 of 4 file(s)\n", out)

	assert.Equal(t,
		".btn {\n  -webkit-appearance: none; -moz-appearance: none; appearance: none;\n}\n"+
			"/*# sourceMappingURL=style.css.map */\n",
		f.read(t, "build/css/style.css"))
	assert.JSONEq(t, `{"version":3,"mappings":"AAAA"}`, f.read(t, "build/css/style.css.map"))

	minified := f.read(t, "build/css/style.min.css")
	assert.Contains(t, minified, "-webkit-appearance:none")
	assert.True(t, strings.HasSuffix(minified, "/*# sourceMappingURL=style.min.css.map */\n"))
	assert.Contains(t, f.read(t, "build/css/style.min.css.map"), `"style.css"`)
}

func TestStyles_Production(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{"src/sass/style.scss": ".g { display: grid; }"})

	f.styles.EXPECT().Compile(gomock.Any(), styleRequest(f, false)).Return(ports.StyleResult{
		CSS: ".g {\n  display: grid;\n}\n",
	}, nil)

	c := f.catalog(t)
	c.SetReloader(mocks.NewMockReloader(gomock.NewController(t)))

	_, err := run(t, c, tasks.Styles)
	require.NoError(t, err)

	assert.Equal(t, ".g {\n  display: -ms-grid; display: grid;\n}\n", f.read(t, "build/css/style.css"))
	assert.NotContains(t, f.read(t, "build/css/style.min.css"), "sourceMappingURL")
	assert.NoFileExists(t, f.path("build/css/style.css.map"))
	assert.NoFileExists(t, f.path("build/css/style.min.css.map"))
}

func TestStyles_MissingEntry(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)

	out, err := run(t, f.catalog(t), tasks.Styles)
	require.NoError(t, err)
	assert.Contains(t, out, "no stylesheet entry")
}

func TestStyles_CompileError(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{"src/sass/style.scss": ".a {"})

	compileErr := assert.AnError
	f.styles.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(ports.StyleResult{}, compileErr)

	_, err := run(t, f.catalog(t), tasks.Styles)
	require.ErrorIs(t, err, compileErr)
	assert.NoFileExists(t, f.path("build/css/style.css"))
}

func TestScripts(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{"src/js/main.js": "console.log(1)"})

	f.log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, `"vendor"`)
	})
	f.log.EXPECT().Warn("unused import")
	f.bundler.EXPECT().Bundle(gomock.Any(), ports.BundleRequest{
		Entries:   []ports.BundleEntry{{Name: "main", Path: f.path("src/js/main.js")}},
		OutDir:    f.path("build/js"),
		Minify:    false,
		SourceMap: true,
	}).Return(ports.BundleResult{
		Files:    []string{f.path("build/js/main.min.js"), f.path("build/js/main.min.js.map")},
		Warnings: []string{"unused import"},
	}, nil)

	out, err := run(t, f.catalog(t), tasks.Scripts)
	require.NoError(t, err)
	assert.Equal(t, "bundled 1 entry point(s) into 2 file(s)\n", out)
}

func TestScripts_ProductionMinifies(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"src/js/main.js":   "1",
		"src/js/vendor.js": "2",
	})

	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.BundleRequest) (ports.BundleResult, error) {
			assert.Len(t, req.Entries, 2)
			assert.True(t, req.Minify)
			assert.False(t, req.SourceMap)
			return ports.BundleResult{}, nil
		})

	_, err := run(t, f.catalog(t), tasks.Scripts)
	require.NoError(t, err)
}

func TestScripts_NoEntries(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.log.EXPECT().Warn(gomock.Any()).Times(2)

	out, err := run(t, f.catalog(t), tasks.Scripts)
	require.NoError(t, err)
	assert.Equal(t, "no script entries\n", out)
}

func TestConvert(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{
		"src/img/hero.jpg":       "jpg",
		"src/img/team/ann.png":   "png",
		"src/img/bg/slide.jpg":   "jpg",
		"src/img/icons/cart.svg": "<svg/>",
	})

	f.codec.EXPECT().Convert(gomock.Any(), f.path("src/img/hero.jpg"), f.path("src/img/hero.webp"), ports.FormatWebP)
	f.codec.EXPECT().Convert(gomock.Any(), f.path("src/img/team/ann.png"), f.path("src/img/team/ann.webp"), ports.FormatWebP)

	out, err := run(t, f.catalog(t, "bg"), tasks.WebP)
	require.NoError(t, err)
	assert.Equal(t, "converted 2 file(s) to webp\n", out)
}

func TestConvert_SharedTarget(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{
		"src/img/hero.jpg": "jpg",
		"src/img/hero.png": "png",
	})

	_, err := run(t, f.catalog(t), tasks.WebP)
	require.ErrorIs(t, err, domain.ErrDuplicateImageTarget)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, f.path("src/img/hero.webp"), zErr.Metadata()["path"])
	assert.Equal(t, f.path("src/img/hero.jpg")+", "+f.path("src/img/hero.png"), zErr.Metadata()["sources"])
	assert.NoFileExists(t, f.path("src/img/hero.webp"))
}

func TestConvert_AVIFError(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, map[string]string{"src/img/hero.png": "png"})

	f.codec.EXPECT().Convert(gomock.Any(), f.path("src/img/hero.png"), f.path("src/img/hero.avif"), ports.FormatAVIF).
		Return(assert.AnError)

	_, err := run(t, f.catalog(t), tasks.AVIF)
	require.ErrorIs(t, err, assert.AnError)
}

func TestImagemin(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"build/img/hero.jpg":    "jpg",
		"build/img/bg/a.png":    "png",
		"build/img/photo.jpeg":  "jpeg",
		"build/img/icon.svg":    "<svg/>",
		"src/img/untouched.jpg": "jpg",
	})

	f.codec.EXPECT().Recompress(gomock.Any(), f.path("build/img/hero.jpg"))
	f.codec.EXPECT().Recompress(gomock.Any(), f.path("build/img/bg/a.png"))

	out, err := run(t, f.catalog(t), tasks.Imagemin)
	require.NoError(t, err)
	assert.Equal(t, "recompressed 2 file(s)\n", out)
}

func TestExecute_Cancelled(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	c := f.catalog(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Execute(ctx, &domain.Task{Name: domain.NewInternedString(tasks.Pages)}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_EndToEnd(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, map[string]string{
		"src/html/index.html":         "<p>home</p>",
		"src/fonts/a.woff":            "font",
		"src/img/sprite/svg/cart.svg": `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg>`,
		"build/stale.html":            "stale",
	})
	f.log.EXPECT().Warn(gomock.Any()).Times(4)

	c := f.catalog(t)
	g, err := c.Graph(tasks.BuildTasks...)
	require.NoError(t, err)

	build := func() map[string]string {
		for task := range g.Walk() {
			require.NoError(t, c.Execute(context.Background(), &task, &strings.Builder{}), task.Name.String())
		}
		return snapshot(t, f.path("build"))
	}

	first := build()
	assert.NoFileExists(t, f.path("build/stale.html"))
	assert.FileExists(t, f.path("build/index.html"))
	assert.FileExists(t, f.path("build/fonts/a.woff"))
	assert.FileExists(t, filepath.Join(f.root, "build", "img", "sprite", domain.SpriteFileName))

	entries, err := os.ReadDir(f.path("build"))
	require.NoError(t, err)
	var top []string
	for _, e := range entries {
		top = append(top, e.Name())
	}
	assert.Equal(t, []string{"fonts", "img", "index.html"}, top)

	assert.Equal(t, first, build(), "a second build yields the same tree")
}

// snapshot maps every file below root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
