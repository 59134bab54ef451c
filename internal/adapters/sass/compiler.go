// Package sass compiles stylesheets with the embedded Dart Sass protocol.
package sass

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTimeout bounds a single compilation.
const DefaultTimeout = time.Minute

var _ ports.StyleCompiler = (*Compiler)(nil)

// Compiler implements ports.StyleCompiler. The Dart Sass process is started
// on the first compilation and reused until Close.
type Compiler struct {
	logger ports.Logger

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewCompiler creates a Compiler that reports Sass warnings to logger.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile compiles req.Entry to expanded CSS.
func (c *Compiler) Compile(ctx context.Context, req ports.StyleRequest) (ports.StyleResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.StyleResult{}, err
	}

	entry, err := filepath.Abs(req.Entry)
	if err != nil {
		return ports.StyleResult{}, compileError(err, req.Entry)
	}

	// #nosec G304 -- entry comes from the path configuration
	source, err := os.ReadFile(entry)
	if err != nil {
		return ports.StyleResult{}, compileError(err, entry)
	}

	transpiler, err := c.start(req.Binary)
	if err != nil {
		return ports.StyleResult{}, compileError(err, entry)
	}

	includes := make([]string, 0, len(req.IncludePaths)+1)
	includes = append(includes, filepath.Dir(entry))
	includes = append(includes, req.IncludePaths...)

	result, err := transpiler.Execute(godartsass.Args{
		Source:                  string(source),
		URL:                     fileURL(entry),
		SourceSyntax:            godartsass.SourceSyntaxSCSS,
		OutputStyle:             godartsass.OutputStyleExpanded,
		EnableSourceMap:         req.SourceMap,
		SourceMapIncludeSources: req.SourceMap,
		IncludePaths:            includes,
	})
	if err != nil {
		return ports.StyleResult{}, compileError(err, entry)
	}

	return ports.StyleResult{CSS: result.CSS, SourceMap: result.SourceMap}, nil
}

// Close stops the Dart Sass process.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler == nil {
		return nil
	}
	t := c.transpiler
	c.transpiler = nil
	if t.IsShutDown() {
		return nil
	}
	return t.Close()
}

func (c *Compiler) start(binary string) (*godartsass.Transpiler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler != nil && !c.transpiler.IsShutDown() {
		return c.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: binary,
		Timeout:                  DefaultTimeout,
		LogEventHandler:          c.logEvent,
	})
	if err != nil {
		return nil, err
	}
	c.transpiler = t
	return t, nil
}

func (c *Compiler) logEvent(event godartsass.LogEvent) {
	if c.logger == nil {
		return
	}
	switch event.Type {
	case godartsass.LogEventTypeDebug:
		c.logger.Info("sass: " + event.Message)
	default:
		c.logger.Warn("sass: " + event.Message)
	}
}

func compileError(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrStyleCompileFailed.Error()), "path", path)
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}
