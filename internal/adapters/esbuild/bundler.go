// Package esbuild bundles scripts and minifies stylesheets with esbuild.
package esbuild

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Bundler     = (*Bundler)(nil)
	_ ports.CSSMinifier = (*Bundler)(nil)
)

// Bundler implements ports.Bundler and ports.CSSMinifier.
type Bundler struct{}

// New creates a Bundler.
func New() *Bundler {
	return &Bundler{}
}

// Bundle writes one "[name].min.js" per entry into req.OutDir.
func (b *Bundler) Bundle(ctx context.Context, req ports.BundleRequest) (ports.BundleResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.BundleResult{}, err
	}
	if len(req.Entries) == 0 {
		return ports.BundleResult{}, nil
	}

	entries := make([]api.EntryPoint, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = api.EntryPoint{InputPath: e.Path, OutputPath: e.Name + ".min"}
	}

	sourcemap := api.SourceMapNone
	if req.SourceMap {
		sourcemap = api.SourceMapLinked
	}

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entries,
		Bundle:              true,
		Outdir:              req.OutDir,
		Write:               true,
		Target:              api.ES2015,
		MinifyWhitespace:    req.Minify,
		MinifyIdentifiers:   req.Minify,
		MinifySyntax:        req.Minify,
		Sourcemap:           sourcemap,
		LogLevel:            api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		err := errors.New(formatMessages(result.Errors, api.ErrorMessage))
		return ports.BundleResult{}, zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "errors", len(result.Errors))
	}

	files := make([]string, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		files = append(files, f.Path)
	}
	slices.Sort(files)

	var warnings []string
	for _, w := range api.FormatMessages(result.Warnings, api.FormatMessagesOptions{Kind: api.WarningMessage}) {
		warnings = append(warnings, strings.TrimSpace(w))
	}

	return ports.BundleResult{Files: files, Warnings: warnings}, nil
}

// MinifyCSS minifies css. The returned code carries no sourceMappingURL
// comment; the caller decides where the map is written.
func (b *Bundler) MinifyCSS(css []byte, file string, sourceMap bool) (ports.CSSResult, error) {
	sourcemap := api.SourceMapNone
	if sourceMap {
		sourcemap = api.SourceMapExternal
	}

	result := api.Transform(string(css), api.TransformOptions{
		Loader:            api.LoaderCSS,
		Sourcefile:        file,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcemap:         sourcemap,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		err := errors.New(formatMessages(result.Errors, api.ErrorMessage))
		return ports.CSSResult{}, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", file)
	}

	return ports.CSSResult{Code: result.Code, Map: result.Map}, nil
}

func formatMessages(msgs []api.Message, kind api.MessageKind) string {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind})
	for i, m := range formatted {
		formatted[i] = strings.TrimSpace(m)
	}
	return strings.Join(formatted, "\n")
}
