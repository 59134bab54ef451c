package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "sitepress.yaml"

	// EnvFileName is the name of the optional dotenv file in the project root.
	EnvFileName = ".env"

	// ModeEnvVar selects the build mode.
	ModeEnvVar = "SITEPRESS_ENV"

	// LegacyModeEnvVar is consulted when ModeEnvVar is unset.
	LegacyModeEnvVar = "NODE_ENV"

	// TokenEnvVar holds the deploy token.
	TokenEnvVar = "SITEPRESS_GIT_TOKEN"

	// FallbackTokenEnvVar is consulted when TokenEnvVar is unset.
	FallbackTokenEnvVar = "GITHUB_TOKEN"

	// SpriteFileName is the name of the generated SVG sprite.
	SpriteFileName = "sprite.svg"

	// StyleEntry is the stylesheet entry point inside src.styles.
	StyleEntry = "style.scss"

	// DirPerm is the default permission for directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
