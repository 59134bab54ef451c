package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Mode selects between development and production output.
type Mode string

const (
	// ModeDevelopment writes source maps and pushes reloads.
	ModeDevelopment Mode = "development"
	// ModeProduction minifies scripts and omits source maps.
	ModeProduction Mode = "production"
)

// ParseMode parses a mode name. An empty string yields fallback.
func ParseMode(s string, fallback Mode) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return fallback, nil
	case "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod":
		return ModeProduction, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidMode, "unsupported mode"), "mode", s)
	}
}

// IsDevelopment reports whether m is the development mode.
func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}

func (m Mode) String() string {
	return string(m)
}
