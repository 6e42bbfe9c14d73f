// Package compression downsamples and re-encodes images for upload.
//
// An image is fitted inside a bounding box with its aspect ratio kept.
// Large sources are first pre-scaled by a power-of-two sample size with a
// nearest-neighbour filter, then scaled to the exact target with a bilinear
// filter. EXIF orientations 3, 6 and 8 are corrected before encoding.
//
// Decoders: JPEG, PNG, GIF, BMP, WebP. Encoders: JPEG, PNG.
package compression
