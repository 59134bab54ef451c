package ports

import "context"

// BundleEntry is one script entry point.
type BundleEntry struct {
	// Name becomes the output file name, as in "[name].min.js".
	Name string
	// Path is the absolute path of the entry file.
	Path string
}

// BundleRequest describes one bundler run.
type BundleRequest struct {
	Entries   []BundleEntry
	OutDir    string
	Minify    bool
	SourceMap bool
}

// BundleResult lists what the bundler wrote.
type BundleResult struct {
	Files    []string
	Warnings []string
}

// CSSResult is a minified stylesheet.
type CSSResult struct {
	Code []byte
	Map  []byte
}

//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks

// Bundler bundles script entry points.
type Bundler interface {
	Bundle(ctx context.Context, req BundleRequest) (BundleResult, error)
}

// CSSMinifier minifies compiled stylesheets.
type CSSMinifier interface {
	// MinifyCSS minifies css. file names the source in the returned map,
	// which is only produced when sourceMap is set.
	MinifyCSS(css []byte, file string, sourceMap bool) (CSSResult, error)
}
