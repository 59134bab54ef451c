// Package images converts and recompresses raster images.
package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// ConvertQuality is the quality used for WebP and AVIF output.
	ConvertQuality = 90
	// JPEGQuality is the quality used when recompressing JPEG files.
	JPEGQuality = 75
)

var _ ports.ImageCodec = (*Codec)(nil)

// Codec implements ports.ImageCodec.
type Codec struct{}

// NewCodec creates a Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Convert decodes src and writes it to dst as WebP or AVIF.
func (c *Codec) Convert(ctx context.Context, src, dst string, format ports.ImageFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return encodeError(err, src)
	}

	var buf bytes.Buffer
	switch format {
	case ports.FormatWebP:
		err = webp.Encode(&buf, img, webp.Options{Quality: ConvertQuality, Method: webp.DefaultMethod})
	case ports.FormatAVIF:
		err = avif.Encode(&buf, img, avif.Options{
			Quality:           ConvertQuality,
			QualityAlpha:      ConvertQuality,
			Speed:             avif.DefaultSpeed,
			ChromaSubsampling: image.YCbCrSubsampleRatio420,
		})
	default:
		return zerr.With(zerr.Wrap(domain.ErrImageEncodeFailed, "unsupported output format"), "format", string(format))
	}
	if err != nil {
		return encodeError(err, src)
	}

	if err := writeAtomic(dst, &buf); err != nil {
		return encodeError(err, dst)
	}
	return nil
}

// Recompress re-encodes a JPEG or PNG file in place. The file is only
// replaced when the new encoding is smaller.
func (c *Codec) Recompress(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return encodeError(err, path)
	}

	var opts []imaging.EncodeOption
	switch format {
	case imaging.JPEG:
		opts = append(opts, imaging.JPEGQuality(JPEGQuality))
	case imaging.PNG:
		opts = append(opts, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		return zerr.With(zerr.Wrap(domain.ErrImageEncodeFailed, "only jpeg and png can be recompressed"), "path", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return encodeError(err, path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return encodeError(err, path)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return encodeError(err, path)
	}

	if int64(buf.Len()) >= info.Size() {
		return nil
	}
	if err := writeAtomic(path, &buf); err != nil {
		return encodeError(err, path)
	}
	return nil
}

func writeAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func encodeError(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrImageEncodeFailed.Error()), "path", path)
}
