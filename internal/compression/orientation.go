package compression

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// EXIF orientation values that are corrected.
const (
	orientationRotate180 = 3
	orientationRotate90  = 6
	orientationRotate270 = 8
)

// ReadOrientation returns the EXIF orientation tag of r, or 0 when the
// image carries no EXIF data or the tag cannot be read.
func ReadOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		logger.Debug("no EXIF data: %v", err)
		return 0
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}

	orientation, err := tag.Int(0)
	if err != nil {
		logger.Warn("reading EXIF orientation: %v", err)
		return 0
	}
	return orientation
}

// ApplyOrientation rotates img clockwise for orientations 6 (90°),
// 3 (180°) and 8 (270°). Other values return img unchanged.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	// imaging rotates counter-clockwise
	switch orientation {
	case orientationRotate90:
		return imaging.Rotate270(img)
	case orientationRotate180:
		return imaging.Rotate180(img)
	case orientationRotate270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
