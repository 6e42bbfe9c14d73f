package domain

import (
	"path"
	"time"
)

// FileKind classifies a staged file for bucket placement.
type FileKind string

// Available file kinds.
const (
	// FileKindImage is a compressed image, stored under images/.
	FileKindImage FileKind = "image"

	// FileKindDocument is an arbitrary file copied as-is, stored under files/.
	FileKindDocument FileKind = "document"
)

// IsValid returns true if the kind is recognised.
func (k FileKind) IsValid() bool {
	return k == FileKindImage || k == FileKindDocument
}

// String returns the string representation.
func (k FileKind) String() string {
	return string(k)
}

// ObjectPrefix returns the bucket folder objects of this kind are written to.
func (k FileKind) ObjectPrefix() string {
	if k == FileKindImage {
		return "images/"
	}
	return "files/"
}

// ImageSource identifies where an image came from.
// Camera captures are owned by bucketdrop and removed once compressed;
// gallery images belong to the user and are never touched.
type ImageSource string

// Available image sources.
const (
	ImageSourceCamera  ImageSource = "camera"
	ImageSourceGallery ImageSource = "gallery"
)

// IsValid returns true if the source is recognised.
func (s ImageSource) IsValid() bool {
	return s == ImageSourceCamera || s == ImageSourceGallery
}

// StagedFile is a local copy of a picked or captured file.
// It is the single file held for the next upload.
type StagedFile struct {
	// Path is the absolute path inside the staging directory.
	Path string

	// Name is the base name used for the bucket object.
	Name string

	// Kind decides the bucket folder.
	Kind FileKind

	// Size is the size in bytes at staging time.
	Size int64

	// ContentType is the MIME type sent with the upload.
	ContentType string

	// StagedAt is when the file finished staging.
	StagedAt time.Time
}

// ObjectName returns the bucket object name, e.g. "images/1700000000000.jpg".
func (f *StagedFile) ObjectName() string {
	return f.Kind.ObjectPrefix() + path.Base(f.Name)
}
