package domain

// ScriptEntry is a named script bundle entry point, relative to src.root.
type ScriptEntry struct {
	Name string
	Path string
}

// DefaultScriptEntries returns the default bundle entry points.
func DefaultScriptEntries() []ScriptEntry {
	return []ScriptEntry{
		{Name: "main", Path: "js/main.js"},
		{Name: "vendor", Path: "js/vendor.js"},
	}
}

// ChangeStrategy decides whether a copy task rewrites a destination file.
type ChangeStrategy string

const (
	// ChangeByMtime skips files whose destination is at least as new as the source.
	ChangeByMtime ChangeStrategy = "mtime"
	// ChangeByContent skips files whose destination already holds identical bytes.
	ChangeByContent ChangeStrategy = "content"
)

// StyleSettings configures the stylesheet pipeline.
type StyleSettings struct {
	IncludePaths []string
	// Compiler is the path of the Dart Sass embedded binary; empty means "sass" on PATH.
	Compiler string
}

// ServerSettings configures the development server.
type ServerSettings struct {
	Host string
	Port int
	Open bool
}

// DeploySettings configures publishing of the destination tree.
type DeploySettings struct {
	Remote      string
	URL         string
	Branch      string
	Message     string
	AuthorName  string
	AuthorEmail string
}

// Project is the fully resolved configuration of one site.
type Project struct {
	Root         string
	Mode         Mode
	Paths        *Paths
	Scripts      []ScriptEntry
	Styles       StyleSettings
	ImageExclude []string
	Changed      ChangeStrategy
	Server       ServerSettings
	Deploy       DeploySettings
}
