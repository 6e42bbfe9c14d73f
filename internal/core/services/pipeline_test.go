package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/staging"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// stubCompressor writes a fixed payload instead of decoding images.
type stubCompressor struct {
	mu    sync.Mutex
	calls []domain.CompressionOptions
	err   error
}

func (c *stubCompressor) Compress(
	_ context.Context,
	_ string,
	opts domain.CompressionOptions,
) (*domain.CompressedImage, error) {
	c.mu.Lock()
	c.calls = append(c.calls, opts)
	c.mu.Unlock()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if c.err != nil {
		// Leave a partial file behind like a failed encode would
		_ = os.WriteFile(opts.DestinationPath, []byte("partial"), 0o600)
		return nil, c.err
	}
	data := []byte("compressed")
	if err := os.WriteFile(opts.DestinationPath, data, 0o600); err != nil {
		return nil, err
	}
	return &domain.CompressedImage{
		Path:       opts.DestinationPath,
		Size:       int64(len(data)),
		Width:      60,
		Height:     80,
		SampleSize: 4,
	}, nil
}

func (c *stubCompressor) Sample(context.Context, string, float64, float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (c *stubCompressor) CanDecode(contentType string) bool {
	return contentType == "image/png" || contentType == "image/jpeg"
}

// recordingNotifier keeps every notice.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) last() domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return domain.Notice{}
	}
	return n.notices[len(n.notices)-1]
}

// failingStore rejects every Put.
type failingStore struct{ err error }

func (s failingStore) Put(context.Context, string, io.Reader, string) (*domain.StoredObject, error) {
	return nil, s.err
}
func (s failingStore) Bucket() string { return "photos" }

type stubFactory struct{ store driven.ObjectStore }

func (f stubFactory) Open(context.Context, domain.StorageSettings) (driven.ObjectStore, error) {
	return f.store, nil
}

type pipelineFixture struct {
	service    *PipelineService
	compressor *stubCompressor
	workspace  *staging.Workspace
	factory    *memory.ObjectStoreFactory
	uploads    *memory.UploadStore
	notifier   *recordingNotifier
	config     *memory.ConfigStore
	srcDir     string
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	ws, err := staging.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	f := &pipelineFixture{
		compressor: &stubCompressor{},
		workspace:  ws,
		factory:    memory.NewObjectStoreFactory(),
		uploads:    memory.NewUploadStore(),
		notifier:   &recordingNotifier{},
		config:     memory.NewConfigStore(),
		srcDir:     t.TempDir(),
	}
	_ = f.config.Set("storage.bucket", "photos")

	f.service = NewPipelineService(f.compressor, ws, f.factory, f.uploads, f.notifier, NewSettingsService(f.config))

	ids := 0
	f.service.newID = func() string {
		ids++
		return fmt.Sprintf("up-%d", ids)
	}
	return f
}

func (f *pipelineFixture) writeSource(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.srcDir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func (f *pipelineFixture) bucket() *memory.ObjectStore {
	return f.factory.Bucket("photos")
}

func TestPipelineService_StageImage_Gallery(t *testing.T) {
	f := newPipelineFixture(t)
	_ = f.config.Set("compression.quality", 75)
	src := f.writeSource(t, "holiday.png", pngHeader)

	staged, err := f.service.StageImage(context.Background(), src, domain.ImageSourceGallery)

	require.NoError(t, err)
	assert.Equal(t, domain.FileKindImage, staged.Kind)
	assert.Equal(t, "image/jpeg", staged.ContentType)
	assert.Equal(t, filepath.Join(f.workspace.Root(), "Images"), filepath.Dir(staged.Path))
	assert.True(t, strings.HasSuffix(staged.Name, ".jpg"))
	assert.Equal(t, int64(len("compressed")), staged.Size)
	assert.FileExists(t, staged.Path)

	// Gallery images are never touched
	assert.FileExists(t, src)

	require.Len(t, f.compressor.calls, 1)
	opts := f.compressor.calls[0]
	assert.Equal(t, 75, opts.Quality)
	assert.InDelta(t, domain.DefaultMaxWidth, opts.MaxWidth, 0.0001)
	assert.InDelta(t, domain.DefaultMaxHeight, opts.MaxHeight, 0.0001)
	assert.Equal(t, staged.Path, opts.DestinationPath)

	assert.Equal(t, staged, f.service.Selected())
}

func TestPipelineService_StageImage_CameraRemovesCapture(t *testing.T) {
	f := newPipelineFixture(t)
	src := f.writeSource(t, "capture.jpg", []byte("raw capture"))

	staged, err := f.service.StageImage(context.Background(), src, domain.ImageSourceCamera)

	require.NoError(t, err)
	assert.NoFileExists(t, src)
	assert.FileExists(t, staged.Path)
}

func TestPipelineService_StageImage_PNGFormat(t *testing.T) {
	f := newPipelineFixture(t)
	_ = f.config.Set("compression.format", "png")
	src := f.writeSource(t, "shot.png", pngHeader)

	staged, err := f.service.StageImage(context.Background(), src, "")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(staged.Name, ".png"))
	assert.Equal(t, "image/png", staged.ContentType)
}

func TestPipelineService_StageImage_CompressFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.compressor.err = domain.ErrUnsupportedImage
	src := f.writeSource(t, "capture.jpg", []byte("not really"))

	_, err := f.service.StageImage(context.Background(), src, domain.ImageSourceCamera)

	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
	assert.Nil(t, f.service.Selected())

	// The capture survives a failed compression and no output is left
	assert.FileExists(t, src)
	entries, err := os.ReadDir(filepath.Join(f.workspace.Root(), "Images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipelineService_StageImage_FailureKeepsPreviousSelection(t *testing.T) {
	f := newPipelineFixture(t)
	doc := f.writeSource(t, "report.pdf", []byte("%PDF-1.4"))
	previous, err := f.service.StageDocument(context.Background(), doc)
	require.NoError(t, err)

	f.compressor.err = errors.New("decode failed")
	_, err = f.service.StageImage(context.Background(), f.writeSource(t, "x.png", pngHeader), domain.ImageSourceGallery)

	require.Error(t, err)
	assert.Equal(t, previous, f.service.Selected())
}

func TestPipelineService_StageImage_InvalidSource(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.service.StageImage(context.Background(), "x.jpg", "scanner")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.compressor.calls)
}

func TestPipelineService_StageDocument(t *testing.T) {
	f := newPipelineFixture(t)
	src := f.writeSource(t, "report.pdf", []byte("%PDF-1.4 body"))

	staged, err := f.service.StageDocument(context.Background(), src)

	require.NoError(t, err)
	assert.Equal(t, domain.FileKindDocument, staged.Kind)
	assert.Equal(t, "report.pdf", staged.Name)
	assert.Equal(t, "application/pdf", staged.ContentType)
	assert.Equal(t, int64(len("%PDF-1.4 body")), staged.Size)
	assert.Equal(t, filepath.Join(f.workspace.Root(), "Documents", "report.pdf"), staged.Path)
	assert.Empty(t, f.compressor.calls)
	assert.Equal(t, staged, f.service.Selected())
}

func TestPipelineService_StageDocument_Missing(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.service.StageDocument(context.Background(), filepath.Join(f.srcDir, "nope.pdf"))

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, f.service.Selected())
}

// unreadableCopyWorkspace stages a directory where the document copy should
// be, so the copy exists but cannot be read back.
type unreadableCopyWorkspace struct {
	*staging.Workspace
	removed []string
}

func (w *unreadableCopyWorkspace) CopyDocument(_ context.Context, src string) (string, error) {
	dst := filepath.Join(w.Root(), "Documents", filepath.Base(src))
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return "", err
	}
	return dst, nil
}

func (w *unreadableCopyWorkspace) Remove(path string) error {
	w.removed = append(w.removed, path)
	return w.Workspace.Remove(path)
}

func TestPipelineService_StageDocument_UnreadableCopyRemoved(t *testing.T) {
	f := newPipelineFixture(t)
	ws := &unreadableCopyWorkspace{Workspace: f.workspace}
	service := NewPipelineService(f.compressor, ws, f.factory, f.uploads, f.notifier, NewSettingsService(f.config))
	dst := filepath.Join(f.workspace.Root(), "Documents", "report.pdf")

	_, err := service.StageDocument(context.Background(), f.writeSource(t, "report.pdf", []byte("%PDF-1.4")))

	require.Error(t, err)
	assert.Equal(t, []string{dst}, ws.removed)
	assert.NoDirExists(t, dst)
	assert.Nil(t, service.Selected())
}

func TestPipelineService_Stage_DetectsKind(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		kind domain.FileKind
	}{
		{"png content", "photo.bin", pngHeader, domain.FileKindImage},
		{"pdf content", "scan.pdf", []byte("%PDF-1.7"), domain.FileKindDocument},
		{"plain text", "notes.txt", []byte("hello"), domain.FileKindDocument},
		{"image with unknown decoder", "vector.svg", []byte("<svg xmlns='http://www.w3.org/2000/svg'/>"), domain.FileKindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			src := f.writeSource(t, tt.file, tt.data)

			staged, err := f.service.Stage(context.Background(), src, "")

			require.NoError(t, err)
			assert.Equal(t, tt.kind, staged.Kind)
		})
	}
}

func TestPipelineService_Stage_ForcedKind(t *testing.T) {
	f := newPipelineFixture(t)
	src := f.writeSource(t, "photo.png", pngHeader)

	staged, err := f.service.Stage(context.Background(), src, domain.FileKindDocument)

	require.NoError(t, err)
	assert.Equal(t, domain.FileKindDocument, staged.Kind)
	assert.Equal(t, "photo.png", staged.Name)
}

func TestPipelineService_Stage_UnknownKind(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.service.Stage(context.Background(), "x", "video")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipelineService_Selected_ReturnsCopy(t *testing.T) {
	f := newPipelineFixture(t)
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)

	sel := f.service.Selected()
	sel.Name = "changed"

	assert.Equal(t, "a.txt", f.service.Selected().Name)
}

func TestPipelineService_Upload_NoSelection(t *testing.T) {
	f := newPipelineFixture(t)

	record, err := f.service.Upload(context.Background())

	assert.Nil(t, record)
	assert.ErrorIs(t, err, domain.ErrNoFileSelected)
	assert.Equal(t, domain.Notice{Level: domain.NoticeInfo, Message: "Please select file first"}, f.notifier.last())
	assert.Empty(t, f.bucket().Names())
}

func TestPipelineService_Upload_StagedFileVanished(t *testing.T) {
	f := newPipelineFixture(t)
	staged, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)
	require.NoError(t, os.Remove(staged.Path))

	_, err = f.service.Upload(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoFileSelected)
}

func TestPipelineService_Upload_Image(t *testing.T) {
	f := newPipelineFixture(t)
	staged, err := f.service.StageImage(context.Background(), f.writeSource(t, "p.png", pngHeader), domain.ImageSourceGallery)
	require.NoError(t, err)

	record, err := f.service.Upload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "up-1", record.ID)
	assert.Equal(t, domain.UploadStatusDone, record.Status)
	assert.Equal(t, "images/"+staged.Name, record.ObjectName)
	assert.Equal(t, "photos", record.Bucket)
	assert.Equal(t, staged.Size, record.Bytes)
	assert.False(t, record.FinishedAt.Before(record.StartedAt))

	obj, ok := f.bucket().Object("images/" + staged.Name)
	require.True(t, ok)
	assert.Equal(t, "compressed", string(obj.Data))
	assert.Equal(t, "image/jpeg", obj.ContentType)

	assert.Nil(t, f.service.Selected())
	assert.Equal(t, domain.Notice{Level: domain.NoticeSuccess, Message: "Upload Done"}, f.notifier.last())

	saved, err := f.uploads.Get(context.Background(), "up-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusDone, saved.Status)
}

func TestPipelineService_Upload_Document(t *testing.T) {
	f := newPipelineFixture(t)
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "report.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	record, err := f.service.Upload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "files/report.pdf", record.ObjectName)
	obj, ok := f.bucket().Object("files/report.pdf")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.ContentType)
}

func TestPipelineService_Upload_SecondUploadNeedsNewPick(t *testing.T) {
	f := newPipelineFixture(t)
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)
	_, err = f.service.Upload(context.Background())
	require.NoError(t, err)

	_, err = f.service.Upload(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoFileSelected)
}

func TestPipelineService_Upload_NoBucketKeepsSelection(t *testing.T) {
	f := newPipelineFixture(t)
	require.NoError(t, f.config.Delete("storage.bucket"))
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)

	record, err := f.service.Upload(context.Background())

	assert.Nil(t, record)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NotNil(t, f.service.Selected())
	assert.Equal(t, "Upload Exception", f.notifier.last().Message)

	history, err := f.uploads.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPipelineService_Upload_Failure(t *testing.T) {
	f := newPipelineFixture(t)
	putErr := fmt.Errorf("%w: 500 backend error", domain.ErrUploadFailed)
	f.service.stores = stubFactory{store: failingStore{err: putErr}}
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)

	record, err := f.service.Upload(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	require.NotNil(t, record)
	assert.Equal(t, domain.UploadStatusFailed, record.Status)
	assert.Contains(t, record.Error, "500 backend error")
	assert.Equal(t, domain.Notice{Level: domain.NoticeError, Message: "Upload Exception"}, f.notifier.last())

	// The attempt consumed the selection
	assert.Nil(t, f.service.Selected())

	saved, err := f.uploads.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusFailed, saved.Status)
}

func TestPipelineService_Upload_Cancelled(t *testing.T) {
	f := newPipelineFixture(t)
	_, err := f.service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := f.service.Upload(ctx)

	assert.ErrorIs(t, err, domain.ErrUploadCancelled)
	require.NotNil(t, record)
	assert.Equal(t, domain.UploadStatusCancelled, record.Status)
	assert.Equal(t, "Upload Cancelled", f.notifier.last().Message)
	assert.Empty(t, f.bucket().Names())

	// History is written even though the upload context is done
	_, err = f.uploads.Get(context.Background(), record.ID)
	assert.NoError(t, err)
}

func TestPipelineService_Upload_WithoutHistoryOrNotifier(t *testing.T) {
	f := newPipelineFixture(t)
	service := NewPipelineService(f.compressor, f.workspace, f.factory, nil, nil, NewSettingsService(f.config))
	_, err := service.StageDocument(context.Background(), f.writeSource(t, "a.txt", []byte("a")))
	require.NoError(t, err)

	record, err := service.Upload(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusDone, record.Status)
	assert.NotEmpty(t, record.ID)
}

func TestPipelineService_Send(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		data       []byte
		req        func(path string) driving.SendRequest
		wantPrefix string
		srcRemains bool
	}{
		{
			name: "auto-detected image",
			file: "a.png", data: pngHeader,
			req:        func(p string) driving.SendRequest { return driving.SendRequest{Path: p} },
			wantPrefix: "images/", srcRemains: true,
		},
		{
			name: "camera capture",
			file: "cap.png", data: pngHeader,
			req: func(p string) driving.SendRequest {
				return driving.SendRequest{Path: p, Source: domain.ImageSourceCamera}
			},
			wantPrefix: "images/", srcRemains: false,
		},
		{
			name: "forced document",
			file: "b.png", data: pngHeader,
			req: func(p string) driving.SendRequest {
				return driving.SendRequest{Path: p, Kind: domain.FileKindDocument}
			},
			wantPrefix: "files/", srcRemains: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			src := f.writeSource(t, tt.file, tt.data)

			record, err := f.service.Send(context.Background(), tt.req(src))

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(record.ObjectName, tt.wantPrefix), record.ObjectName)
			_, ok := f.bucket().Object(record.ObjectName)
			assert.True(t, ok)
			if tt.srcRemains {
				assert.FileExists(t, src)
			} else {
				assert.NoFileExists(t, src)
			}
		})
	}
}

func TestPipelineService_Send_StageFailure(t *testing.T) {
	f := newPipelineFixture(t)

	record, err := f.service.Send(context.Background(), driving.SendRequest{Path: filepath.Join(f.srcDir, "missing")})

	assert.Nil(t, record)
	require.Error(t, err)
	assert.Empty(t, f.bucket().Names())
}

func TestPipelineService_Compress(t *testing.T) {
	f := newPipelineFixture(t)
	src := f.writeSource(t, "in.png", pngHeader)
	opts := domain.DefaultCompressionOptions()
	opts.DestinationPath = filepath.Join(f.srcDir, "out.jpg")

	out, err := f.service.Compress(context.Background(), src, opts)

	require.NoError(t, err)
	assert.Equal(t, opts.DestinationPath, out.Path)
	assert.Nil(t, f.service.Selected())
}

func TestPipelineService_Compress_BlankDestination(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.service.Compress(context.Background(), "in.png", domain.DefaultCompressionOptions())

	assert.ErrorIs(t, err, domain.ErrDestinationRequired)
	assert.Equal(t, "Destination File Path cannot be blank!", err.Error())
	assert.Empty(t, f.compressor.calls)
}

func TestUploadStatus(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want domain.UploadStatus
	}{
		{"success", context.Background(), nil, domain.UploadStatusDone},
		{"cancelled sentinel", context.Background(), domain.ErrUploadCancelled, domain.UploadStatusCancelled},
		{"context canceled", context.Background(), context.Canceled, domain.UploadStatusCancelled},
		{"done context", cancelled, errors.New("read failed"), domain.UploadStatusCancelled},
		{"failure", context.Background(), domain.ErrUploadFailed, domain.UploadStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uploadStatus(tt.ctx, tt.err))
		})
	}
}
