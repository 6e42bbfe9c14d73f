package driving

import (
	"context"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// PipelineService runs pick, stage, compress, upload and notify.
// It holds a single selected file; whichever staging call finishes last wins.
type PipelineService interface {
	// StageImage compresses src into the staging area and selects the result.
	// Camera captures are removed after compression; gallery images are not.
	StageImage(ctx context.Context, src string, source domain.ImageSource) (*domain.StagedFile, error)

	// StageDocument copies src into the staging area and selects it.
	StageDocument(ctx context.Context, src string) (*domain.StagedFile, error)

	// Stage picks StageImage (gallery) or StageDocument. An empty kind
	// sniffs the content to decide.
	Stage(ctx context.Context, src string, kind domain.FileKind) (*domain.StagedFile, error)

	// Selected returns the file held for upload, or nil.
	Selected() *domain.StagedFile

	// Upload sends the selected file to the bucket and clears the selection.
	// Returns domain.ErrNoFileSelected if nothing usable is staged.
	Upload(ctx context.Context) (*domain.UploadRecord, error)

	// Send stages src and uploads it in one call.
	Send(ctx context.Context, req SendRequest) (*domain.UploadRecord, error)

	// Compress runs the compressor on its own, without staging or selection.
	Compress(ctx context.Context, src string, opts domain.CompressionOptions) (*domain.CompressedImage, error)
}

// SendRequest describes a one-shot stage and upload.
type SendRequest struct {
	// Path is the file to send.
	Path string

	// Kind forces image or document handling. Empty sniffs the content.
	Kind domain.FileKind

	// Source applies to images. Empty means gallery.
	Source domain.ImageSource
}
