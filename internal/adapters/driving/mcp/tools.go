package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// defaultListLimit applies when list_uploads is called without a limit.
const defaultListLimit = 20

// CompressInput is the input schema for the compress_image tool.
type CompressInput struct {
	Src       string  `json:"src" jsonschema:"path of the image to compress"`
	Dst       string  `json:"dst" jsonschema:"path the compressed image is written to"`
	MaxWidth  float64 `json:"max_width,omitempty" jsonschema:"maximum output width (default from settings)"`
	MaxHeight float64 `json:"max_height,omitempty" jsonschema:"maximum output height (default from settings)"`
	Quality   int     `json:"quality,omitempty" jsonschema:"encoder quality 1-100 (default from settings)"`
	Format    string  `json:"format,omitempty" jsonschema:"output format: jpeg or png"`
}

// CompressOutput is the output schema for the compress_image tool.
type CompressOutput struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SampleSize  int    `json:"sample_size"`
	Orientation int    `json:"orientation,omitempty"`
}

// SendInput is the input schema for the send_file tool.
type SendInput struct {
	Path   string `json:"path" jsonschema:"path of the file to upload"`
	Kind   string `json:"kind,omitempty" jsonschema:"image or document; empty detects from the content"`
	Camera bool   `json:"camera,omitempty" jsonschema:"treat the image as a capture and remove it after compression"`
}

// ListInput is the input schema for the list_uploads tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of uploads to return (default 20)"`
}

// UploadOutput represents a single upload attempt.
type UploadOutput struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Object     string `json:"object"`
	Bucket     string `json:"bucket"`
	Kind       string `json:"kind"`
	Bytes      int64  `json:"bytes"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	DurationMS int64  `json:"duration_ms"`
}

// ListOutput is the output schema for the list_uploads tool.
type ListOutput struct {
	Uploads []UploadOutput `json:"uploads"`
	Count   int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compress_image",
		Description: "Resize an image to fit a bounding box, correct its EXIF orientation and re-encode it",
	}, s.handleCompress)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_file",
		Description: "Stage a file and upload it to the configured bucket under images/ or files/",
	}, s.handleSend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_uploads",
		Description: "List recent upload attempts, newest first",
	}, s.handleListUploads)
}

// handleCompress handles the compress_image tool invocation.
func (s *Server) handleCompress(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompressInput,
) (*mcp.CallToolResult, CompressOutput, error) {
	opts, err := s.compressOptions(input)
	if err != nil {
		return nil, CompressOutput{}, err
	}

	img, err := s.ports.Pipeline.Compress(ctx, input.Src, opts)
	if err != nil {
		return nil, CompressOutput{}, err
	}

	return nil, CompressOutput{
		Path:        img.Path,
		Size:        img.Size,
		Width:       img.Width,
		Height:      img.Height,
		SampleSize:  img.SampleSize,
		Orientation: img.Orientation,
	}, nil
}

// compressOptions layers the given fields over the configured defaults.
func (s *Server) compressOptions(input CompressInput) (domain.CompressionOptions, error) {
	opts := domain.DefaultCompressionOptions()
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return opts, fmt.Errorf("getting settings: %w", err)
		}
		opts = settings.Compression.Options("")
	}

	opts.DestinationPath = input.Dst
	if input.MaxWidth > 0 {
		opts.MaxWidth = input.MaxWidth
	}
	if input.MaxHeight > 0 {
		opts.MaxHeight = input.MaxHeight
	}
	if input.Quality != 0 {
		opts.Quality = input.Quality
	}
	if input.Format != "" {
		format, err := domain.ParseCompressFormat(input.Format)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	return opts, nil
}

// handleSend handles the send_file tool invocation.
func (s *Server) handleSend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	req := driving.SendRequest{Path: input.Path}

	switch input.Kind {
	case "":
	case string(domain.FileKindImage), string(domain.FileKindDocument):
		req.Kind = domain.FileKind(input.Kind)
	default:
		return nil, UploadOutput{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, input.Kind)
	}
	if input.Camera {
		if req.Kind == domain.FileKindDocument {
			return nil, UploadOutput{}, fmt.Errorf("%w: camera applies to images only", domain.ErrInvalidInput)
		}
		req.Kind = domain.FileKindImage
		req.Source = domain.ImageSourceCamera
	}

	record, err := s.ports.Pipeline.Send(ctx, req)
	if err != nil {
		return nil, UploadOutput{}, err
	}
	return nil, toUploadOutput(record), nil
}

// handleListUploads handles the list_uploads tool invocation.
func (s *Server) handleListUploads(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	records, err := s.recentUploads(ctx, input.Limit)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Uploads: make([]UploadOutput, len(records)),
		Count:   len(records),
	}
	for i := range records {
		output.Uploads[i] = toUploadOutput(&records[i])
	}
	return nil, output, nil
}

func (s *Server) recentUploads(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if s.ports.History == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	records, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return records, nil
}

func toUploadOutput(r *domain.UploadRecord) UploadOutput {
	return UploadOutput{
		ID:         r.ID,
		FileName:   r.FileName,
		Object:     r.ObjectName,
		Bucket:     r.Bucket,
		Kind:       r.Kind.String(),
		Bytes:      r.Bytes,
		Status:     r.Status.String(),
		Error:      r.Error,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration().Milliseconds(),
	}
}
