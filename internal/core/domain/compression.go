package domain

import (
	"fmt"
	"strings"
)

// Compression defaults.
const (
	DefaultMaxWidth  = 612.0
	DefaultMaxHeight = 816.0
	DefaultQuality   = 80
)

// CompressFormat is the encoder used for compressed output.
type CompressFormat string

// Available compress formats.
const (
	CompressFormatJPEG CompressFormat = "jpeg"
	CompressFormatPNG  CompressFormat = "png"
)

// ParseCompressFormat parses a user supplied format name.
// "jpg" is accepted as an alias for jpeg.
func ParseCompressFormat(s string) (CompressFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return CompressFormatJPEG, nil
	case "png":
		return CompressFormatPNG, nil
	default:
		return "", fmt.Errorf("%w: unknown compress format %q", ErrInvalidInput, s)
	}
}

// IsValid returns true if the format is recognised.
func (f CompressFormat) IsValid() bool {
	return f == CompressFormatJPEG || f == CompressFormatPNG
}

// String returns the string representation.
func (f CompressFormat) String() string {
	return string(f)
}

// Extension returns the file extension including the dot.
func (f CompressFormat) Extension() string {
	if f == CompressFormatPNG {
		return ".png"
	}
	return ".jpg"
}

// ContentType returns the MIME type for the format.
func (f CompressFormat) ContentType() string {
	if f == CompressFormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// CompressionOptions configures a bounded-box resample and encode.
type CompressionOptions struct {
	// MaxWidth and MaxHeight bound the output. The aspect ratio is kept.
	MaxWidth  float64
	MaxHeight float64

	// Quality is the encoder quality, 1..100. Ignored for PNG.
	Quality int

	// Format selects the encoder.
	Format CompressFormat

	// DestinationPath is the file written. Parent directories are created.
	DestinationPath string
}

// DefaultCompressionOptions returns the defaults with no destination.
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
		Format:    CompressFormatJPEG,
	}
}

// Validate checks the options before any file is opened.
func (o CompressionOptions) Validate() error {
	if strings.TrimSpace(o.DestinationPath) == "" {
		return ErrDestinationRequired
	}
	if o.MaxWidth <= 0 || o.MaxHeight <= 0 {
		return fmt.Errorf("%w: max dimensions must be positive", ErrInvalidInput)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 1 and 100", ErrInvalidInput)
	}
	if !o.Format.IsValid() {
		return fmt.Errorf("%w: unknown compress format %q", ErrInvalidInput, o.Format)
	}
	return nil
}

// CompressedImage describes a file written by the compressor.
type CompressedImage struct {
	Path   string
	Size   int64
	Width  int
	Height int

	// SampleSize is the power-of-two pre-scale applied before filtering.
	SampleSize int

	// Orientation is the EXIF orientation that was corrected, 0 if none.
	Orientation int
}
