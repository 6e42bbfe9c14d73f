package mcp

import (
	"context"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	record     *domain.UploadRecord
	compressed *domain.CompressedImage
	err        error

	lastSend    driving.SendRequest
	lastSrc     string
	lastOptions domain.CompressionOptions
}

func (m *mockPipelineService) StageImage(
	_ context.Context, _ string, _ domain.ImageSource,
) (*domain.StagedFile, error) {
	return nil, m.err
}

func (m *mockPipelineService) StageDocument(_ context.Context, _ string) (*domain.StagedFile, error) {
	return nil, m.err
}

func (m *mockPipelineService) Stage(_ context.Context, _ string, _ domain.FileKind) (*domain.StagedFile, error) {
	return nil, m.err
}

func (m *mockPipelineService) Selected() *domain.StagedFile {
	return nil
}

func (m *mockPipelineService) Upload(_ context.Context) (*domain.UploadRecord, error) {
	return m.record, m.err
}

func (m *mockPipelineService) Send(_ context.Context, req driving.SendRequest) (*domain.UploadRecord, error) {
	m.lastSend = req
	return m.record, m.err
}

func (m *mockPipelineService) Compress(
	_ context.Context, src string, opts domain.CompressionOptions,
) (*domain.CompressedImage, error) {
	m.lastSrc = src
	m.lastOptions = opts
	return m.compressed, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records   []domain.UploadRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.UploadRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.UploadRecord, error) {
	return nil, domain.ErrNotFound
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetBucket(_ string) error {
	return m.err
}

func (m *mockSettingsService) SetCredentials(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetCompression(_ domain.CompressionSettings) error {
	return m.err
}

func (m *mockSettingsService) SetStagingDir(_ string) error {
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.settings.Validate()
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
