// Package mcp provides an MCP (Model Context Protocol) server adapter for bucketdrop.
// It lets AI assistants compress images, upload files and read upload history.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
