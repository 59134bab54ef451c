package ports

import "go.trai.ch/sitepress/internal/core/domain"

//go:generate mockgen -source=files.go -destination=mocks/mock_files.go -package=mocks

// FileResolver expands file sets into the files they currently match.
type FileResolver interface {
	// Resolve returns the matching files in lexical order. A missing
	// directory matches nothing.
	Resolve(set domain.FileSet) ([]string, error)
}

// FileSyncer writes destination files only when they are out of date.
type FileSyncer interface {
	// Copy copies src to dst unless the strategy reports dst as current.
	// It reports whether dst was written.
	Copy(src, dst string, strategy domain.ChangeStrategy) (bool, error)
	// WriteIfChanged writes data to path unless path already holds the same bytes.
	WriteIfChanged(path string, data []byte) (bool, error)
}
