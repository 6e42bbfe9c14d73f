package compression

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	// Decoders registered with image.Decode.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// Ensure Compressor implements the interface.
var _ driven.ImageCompressor = (*Compressor)(nil)

// decodableTypes lists the content types registered with image.Decode.
var decodableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

// Compressor implements driven.ImageCompressor on local files.
type Compressor struct{}

// New creates a new compressor.
func New() *Compressor {
	return &Compressor{}
}

// CanDecode reports whether the content type is a decodable image.
func (c *Compressor) CanDecode(contentType string) bool {
	return decodableTypes[contentType]
}

// Compress fits src inside the bounds in opts and writes opts.DestinationPath.
func (c *Compressor) Compress(
	ctx context.Context,
	src string,
	opts domain.CompressionOptions,
) (*domain.CompressedImage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	img, meta, err := c.sample(ctx, src, opts.MaxWidth, opts.MaxHeight)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size, err := writeImage(opts.DestinationPath, img, opts.Format, opts.Quality)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &domain.CompressedImage{
		Path:        opts.DestinationPath,
		Size:        size,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		SampleSize:  meta.sampleSize,
		Orientation: meta.orientation,
	}, nil
}

// Sample returns the fitted, orientation-corrected image without writing it.
func (c *Compressor) Sample(ctx context.Context, src string, maxWidth, maxHeight float64) (image.Image, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: max dimensions must be positive", domain.ErrInvalidInput)
	}
	img, _, err := c.sample(ctx, src, maxWidth, maxHeight)
	return img, err
}

type sampleMeta struct {
	sampleSize  int
	orientation int
}

func (c *Compressor) sample(
	ctx context.Context,
	src string,
	maxWidth, maxHeight float64,
) (image.Image, sampleMeta, error) {
	var meta sampleMeta

	f, err := os.Open(src)
	if err != nil {
		return nil, meta, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	// Bounds first, so the sample size is known before the full decode
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	width, height := TargetSize(cfg.Width, cfg.Height, maxWidth, maxHeight)
	if width == 0 || height == 0 {
		return nil, meta, fmt.Errorf("%w: empty image", domain.ErrUnsupportedImage)
	}
	meta.sampleSize = SampleSize(cfg.Width, cfg.Height, width, height)

	logger.Debug("decoding %s %dx%d -> %dx%d (sample size %d)",
		format, cfg.Width, cfg.Height, width, height, meta.sampleSize)

	if err := rewind(f); err != nil {
		return nil, meta, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, meta, err
	}

	if meta.sampleSize > 1 {
		sw := max(cfg.Width/meta.sampleSize, 1)
		sh := max(cfg.Height/meta.sampleSize, 1)
		img = resize.Resize(uint(sw), uint(sh), img, resize.NearestNeighbor)
	}

	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}

	if err := rewind(f); err != nil {
		return nil, meta, err
	}
	meta.orientation = ReadOrientation(f)
	img = ApplyOrientation(img, meta.orientation)

	return img, meta, nil
}

// writeImage encodes img to path, creating parent directories.
// A partially written file is removed on failure.
func writeImage(path string, img image.Image, format domain.CompressFormat, quality int) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create destination directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	if err := encode(out, img, format, quality); err != nil {
		out.Close()
		os.Remove(path)
		return 0, fmt.Errorf("encode %s: %w", format, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("close destination: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat destination: %w", err)
	}
	return info.Size(), nil
}

func encode(w io.Writer, img image.Image, format domain.CompressFormat, quality int) error {
	switch format {
	case domain.CompressFormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case domain.CompressFormatPNG:
		return png.Encode(w, img)
	default:
		return errors.New("no encoder")
	}
}

func rewind(f *os.File) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind source: %w", err)
	}
	return nil
}
