package ports

import "context"

// ImageFormat is an output encoding for the image jobs.
type ImageFormat string

const (
	// FormatWebP encodes WebP.
	FormatWebP ImageFormat = "webp"
	// FormatAVIF encodes AVIF.
	FormatAVIF ImageFormat = "avif"
)

// ImageCodec converts and recompresses raster images.
//
//go:generate mockgen -source=images.go -destination=mocks/mock_images.go -package=mocks
type ImageCodec interface {
	// Convert decodes src and writes it to dst in the given format.
	Convert(ctx context.Context, src, dst string, format ImageFormat) error
	// Recompress re-encodes a JPEG or PNG file in place.
	Recompress(ctx context.Context, path string) error
}
