package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// ImageCompressor downsamples and re-encodes images.
type ImageCompressor interface {
	// Compress reads src, fits it inside opts.MaxWidth x opts.MaxHeight,
	// corrects EXIF orientation and writes opts.DestinationPath.
	// Returns domain.ErrDestinationRequired if the destination is blank.
	Compress(ctx context.Context, src string, opts domain.CompressionOptions) (*domain.CompressedImage, error)

	// Sample returns the fitted, orientation-corrected image without writing it.
	Sample(ctx context.Context, src string, maxWidth, maxHeight float64) (image.Image, error)

	// CanDecode reports whether the content type is a decodable image.
	CanDecode(contentType string) bool
}
