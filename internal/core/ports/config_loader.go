package ports

import "go.trai.ch/sitepress/internal/core/domain"

// LoadOptions selects the project to load.
type LoadOptions struct {
	// Root is the project root directory.
	Root string
	// File is the configuration file, relative to Root unless absolute.
	File string
	// DefaultMode applies when neither SITEPRESS_ENV nor NODE_ENV is set.
	DefaultMode domain.Mode
}

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project's .env and configuration file and returns the resolved project.
	Load(opts LoadOptions) (*domain.Project, error)
}
