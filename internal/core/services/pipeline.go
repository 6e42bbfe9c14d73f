package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// historyRetention is how many upload records are kept after each upload.
const historyRetention = 500

// sniffLen is how many bytes are read to detect a content type.
const sniffLen = 512

// PipelineService runs the pick, stage, compress, upload, notify sequence.
type PipelineService struct {
	compressor driven.ImageCompressor
	workspace  driven.Workspace
	stores     driven.ObjectStoreFactory
	uploads    driven.UploadStore
	notifier   driven.Notifier
	settings   driving.SettingsService

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	selected *domain.StagedFile
}

// NewPipelineService creates a new pipeline service.
// The uploads store and notifier are optional - if nil, history is not
// recorded and notices are not shown.
func NewPipelineService(
	compressor driven.ImageCompressor,
	workspace driven.Workspace,
	stores driven.ObjectStoreFactory,
	uploads driven.UploadStore,
	notifier driven.Notifier,
	settings driving.SettingsService,
) *PipelineService {
	return &PipelineService{
		compressor: compressor,
		workspace:  workspace,
		stores:     stores,
		uploads:    uploads,
		notifier:   notifier,
		settings:   settings,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// StageImage compresses src into the staging area and selects the result.
func (p *PipelineService) StageImage(
	ctx context.Context,
	src string,
	source domain.ImageSource,
) (*domain.StagedFile, error) {
	if source == "" {
		source = domain.ImageSourceGallery
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown image source %q", domain.ErrInvalidInput, source)
	}

	settings, err := p.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	format := settings.Compression.Format
	dst, err := p.workspace.NewImagePath(format.Extension())
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}

	logger.Section("Compress")
	logger.Debug("source=%s (%s) destination=%s", src, source, dst)

	out, err := p.compressor.Compress(ctx, src, settings.Compression.Options(dst))
	if err != nil {
		_ = p.workspace.Remove(dst) //nolint:errcheck // best-effort cleanup of the partial output
		return nil, fmt.Errorf("compress image: %w", err)
	}

	logger.Info("compressed to %dx%d, %d bytes (sample size %d)", out.Width, out.Height, out.Size, out.SampleSize)

	// The raw capture has served its purpose once the compressed copy exists
	if source == domain.ImageSourceCamera {
		if err := p.workspace.Remove(src); err != nil {
			logger.Warn("removing camera capture %s: %v", src, err)
		}
	}

	staged := &domain.StagedFile{
		Path:        out.Path,
		Name:        filepath.Base(out.Path),
		Kind:        domain.FileKindImage,
		Size:        out.Size,
		ContentType: format.ContentType(),
		StagedAt:    p.now(),
	}
	p.selectFile(staged)
	return staged, nil
}

// StageDocument copies src into the staging area and selects it.
func (p *PipelineService) StageDocument(ctx context.Context, src string) (*domain.StagedFile, error) {
	logger.Section("Copy Document")

	path, err := p.workspace.CopyDocument(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = p.workspace.Remove(path) //nolint:errcheck // best-effort cleanup of an unusable copy
		return nil, fmt.Errorf("stat staged document: %w", err)
	}

	contentType, err := detectContentType(path)
	if err != nil {
		_ = p.workspace.Remove(path) //nolint:errcheck // best-effort cleanup of an unusable copy
		return nil, err
	}

	logger.Debug("staged %s as %s (%s, %d bytes)", src, path, contentType, info.Size())

	staged := &domain.StagedFile{
		Path:        path,
		Name:        filepath.Base(path),
		Kind:        domain.FileKindDocument,
		Size:        info.Size(),
		ContentType: contentType,
		StagedAt:    p.now(),
	}
	p.selectFile(staged)
	return staged, nil
}

// Stage picks StageImage (gallery) or StageDocument for src.
func (p *PipelineService) Stage(ctx context.Context, src string, kind domain.FileKind) (*domain.StagedFile, error) {
	if kind == "" {
		detected, err := p.detectKind(src)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	switch kind {
	case domain.FileKindImage:
		return p.StageImage(ctx, src, domain.ImageSourceGallery)
	case domain.FileKindDocument:
		return p.StageDocument(ctx, src)
	default:
		return nil, fmt.Errorf("%w: unknown file kind %q", domain.ErrInvalidInput, kind)
	}
}

// Selected returns the file held for upload, or nil.
func (p *PipelineService) Selected() *domain.StagedFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return nil
	}
	f := *p.selected
	return &f
}

// Upload sends the selected file to the bucket and clears the selection.
func (p *PipelineService) Upload(ctx context.Context) (*domain.UploadRecord, error) {
	staged := p.Selected()
	if staged == nil || !fileExists(staged.Path) {
		p.notify(domain.Notice{Level: domain.NoticeInfo, Message: domain.ErrNoFileSelected.Error()})
		return nil, domain.ErrNoFileSelected
	}

	settings, err := p.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	store, err := p.stores.Open(ctx, settings.Storage)
	if err != nil {
		// Keep the selection so the upload can be retried once storage is configured
		p.notify(domain.UploadStatusFailed.Notice())
		return nil, fmt.Errorf("open object store: %w", err)
	}

	logger.Section("Upload")

	record := domain.UploadRecord{
		ID:         p.newID(),
		FileName:   staged.Name,
		ObjectName: staged.ObjectName(),
		Bucket:     store.Bucket(),
		Kind:       staged.Kind,
		Bytes:      staged.Size,
		StartedAt:  p.now(),
	}
	logger.Debug("uploading %s to gs://%s/%s", staged.Path, record.Bucket, record.ObjectName)

	putErr := p.put(ctx, store, staged)

	record.FinishedAt = p.now()
	record.Status = uploadStatus(ctx, putErr)
	if putErr != nil {
		record.Error = putErr.Error()
		logger.Error("upload %s: %v", record.ObjectName, putErr)
	} else {
		logger.Info("uploaded %s in %s", record.ObjectName, record.Duration())
	}

	p.clearSelection(staged.Path)
	p.saveRecord(ctx, record)
	p.notify(record.Status.Notice())

	if putErr != nil {
		return &record, fmt.Errorf("upload: %w", putErr)
	}
	return &record, nil
}

// Send stages req.Path and uploads it.
func (p *PipelineService) Send(ctx context.Context, req driving.SendRequest) (*domain.UploadRecord, error) {
	var err error
	if req.Source == domain.ImageSourceCamera {
		_, err = p.StageImage(ctx, req.Path, domain.ImageSourceCamera)
	} else {
		_, err = p.Stage(ctx, req.Path, req.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p.Upload(ctx)
}

// Compress runs the compressor on its own, without staging or selection.
func (p *PipelineService) Compress(
	ctx context.Context,
	src string,
	opts domain.CompressionOptions,
) (*domain.CompressedImage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out, err := p.compressor.Compress(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("compress image: %w", err)
	}
	return out, nil
}

func (p *PipelineService) put(ctx context.Context, store driven.ObjectStore, staged *domain.StagedFile) error {
	f, err := os.Open(staged.Path)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	_, err = store.Put(ctx, staged.ObjectName(), f, staged.ContentType)
	return err
}

func (p *PipelineService) selectFile(f *domain.StagedFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = f
}

// clearSelection drops the selection if it still points at path.
func (p *PipelineService) clearSelection(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected != nil && p.selected.Path == path {
		p.selected = nil
	}
}

func (p *PipelineService) saveRecord(ctx context.Context, record domain.UploadRecord) {
	if p.uploads == nil {
		return
	}
	// History must outlive a cancelled upload context
	ctx = context.WithoutCancel(ctx)
	if err := p.uploads.Save(ctx, record); err != nil {
		logger.Warn("saving upload record: %v", err)
		return
	}
	if err := p.uploads.Prune(ctx, historyRetention); err != nil {
		logger.Warn("pruning upload history: %v", err)
	}
}

func (p *PipelineService) notify(n domain.Notice) {
	if p.notifier != nil {
		p.notifier.Notify(n)
	}
}

func (p *PipelineService) detectKind(src string) (domain.FileKind, error) {
	contentType, err := detectContentType(src)
	if err != nil {
		return "", err
	}
	if p.compressor.CanDecode(contentType) {
		return domain.FileKindImage, nil
	}
	return domain.FileKindDocument, nil
}

// uploadStatus maps an upload error to its outcome.
func uploadStatus(ctx context.Context, err error) domain.UploadStatus {
	switch {
	case err == nil:
		return domain.UploadStatusDone
	case errors.Is(err, domain.ErrUploadCancelled), errors.Is(err, context.Canceled), ctx.Err() != nil:
		return domain.UploadStatusCancelled
	default:
		return domain.UploadStatusFailed
	}
}

// detectContentType sniffs the first bytes of path, falling back to the
// extension when the content is not recognised.
func detectContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	contentType := http.DetectContentType(buf[:n])
	if contentType == "application/octet-stream" || contentType == "text/plain; charset=utf-8" {
		if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
			return byExt, nil
		}
	}
	return contentType, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
