package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for bucketdrop resources.
	uriScheme = "bucketdrop://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Target bucket, compression defaults and staging directory",
		MIMEType:    mimeJSON,
	}, s.handleSettingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "uploads",
		Name:        "uploads",
		Description: "Recent upload attempts, newest first",
		MIMEType:    mimeJSON,
	}, s.handleUploadsResource)
}

// settingsInfo is the settings resource body. Secrets are never included.
type settingsInfo struct {
	Bucket          string  `json:"bucket"`
	CredentialsFile string  `json:"credentials_file,omitempty"`
	HasAccessToken  bool    `json:"has_access_token"`
	Endpoint        string  `json:"endpoint,omitempty"`
	MaxWidth        float64 `json:"max_width"`
	MaxHeight       float64 `json:"max_height"`
	Quality         int     `json:"quality"`
	Format          string  `json:"format"`
	StagingDir      string  `json:"staging_dir,omitempty"`
	Problems        string  `json:"problems,omitempty"`
}

// handleSettingsResource returns the current settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	info := settingsInfo{
		Bucket:          settings.Storage.Bucket,
		CredentialsFile: settings.Storage.CredentialsFile,
		HasAccessToken:  settings.Storage.AccessToken != "",
		Endpoint:        settings.Storage.Endpoint,
		MaxWidth:        settings.Compression.MaxWidth,
		MaxHeight:       settings.Compression.MaxHeight,
		Quality:         settings.Compression.Quality,
		Format:          settings.Compression.Format.String(),
		StagingDir:      settings.Staging.Dir,
	}
	if err := s.ports.Settings.Validate(); err != nil {
		info.Problems = err.Error()
	}

	return jsonResult(req.Params.URI, info)
}

// handleUploadsResource returns recent uploads.
func (s *Server) handleUploadsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.recentUploads(ctx, defaultListLimit)
	if err != nil {
		return nil, err
	}

	uploads := make([]UploadOutput, len(records))
	for i := range records {
		uploads[i] = toUploadOutput(&records[i])
	}
	return jsonResult(req.Params.URI, uploads)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}
