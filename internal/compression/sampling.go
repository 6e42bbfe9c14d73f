package compression

// TargetSize fits a width x height source inside maxWidth x maxHeight.
// Sources already inside the box keep their size. The result is never
// smaller than 1x1.
func TargetSize(width, height int, maxWidth, maxHeight float64) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	// Single precision, scale factor first, then truncation
	w, h := float32(width), float32(height)
	boxW, boxH := float32(maxWidth), float32(maxHeight)
	if h <= boxH && w <= boxW {
		return width, height
	}

	imgRatio := w / h
	maxRatio := boxW / boxH

	var outW, outH int
	switch {
	case imgRatio < maxRatio:
		// Taller than the box: height is the limit
		scale := boxH / h
		outW = int(scale * w)
		outH = int(boxH)
	case imgRatio > maxRatio:
		// Wider than the box: width is the limit
		scale := boxW / w
		outW = int(boxW)
		outH = int(scale * h)
	default:
		outW = int(boxW)
		outH = int(boxH)
	}

	return max(outW, 1), max(outH, 1)
}

// SampleSize returns the power-of-two divisor applied to a width x height
// source before filtering down to reqWidth x reqHeight.
//
// It is 1 when the source fits. Otherwise it is doubled once, then doubled
// again for as long as both halved dimensions divided by it still cover
// the request.
func SampleSize(width, height, reqWidth, reqHeight int) int {
	sample := 1
	if height > reqHeight || width > reqWidth {
		sample *= 2
		halfHeight := height / 2
		halfWidth := width / 2

		for halfHeight/sample >= reqHeight && halfWidth/sample >= reqWidth {
			sample *= 2
		}
	}
	return sample
}
