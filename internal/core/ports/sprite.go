package ports

// SpriteSymbol is one SVG file destined for the sprite.
type SpriteSymbol struct {
	// ID is the symbol id, the file's base name without extension.
	ID string
	// Path is used in error metadata.
	Path string
	Data []byte
}

// SpriteBuilder merges SVG files into a single symbol sprite.
type SpriteBuilder interface {
	Build(symbols []SpriteSymbol) ([]byte, error)
}
