package ports

import "context"

// StyleRequest describes one stylesheet compilation.
type StyleRequest struct {
	// Entry is the absolute path of the entry stylesheet.
	Entry string
	// IncludePaths are searched for imports that are not relative to Entry.
	IncludePaths []string
	// SourceMap requests a source map with embedded sources.
	SourceMap bool
	// Binary is the Dart Sass executable. Empty means "sass" on PATH.
	Binary string
}

// StyleResult is the compiled stylesheet.
type StyleResult struct {
	CSS       string
	SourceMap string
}

// StyleCompiler compiles Sass into CSS.
//
//go:generate mockgen -source=styles.go -destination=mocks/mock_styles.go -package=mocks
type StyleCompiler interface {
	Compile(ctx context.Context, req StyleRequest) (StyleResult, error)
	// Close releases the compiler process, if one was started.
	Close() error
}
