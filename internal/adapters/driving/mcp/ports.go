package mcp

import (
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline compresses and uploads files.
	Pipeline driving.PipelineService

	// History lists past uploads. Optional.
	History driving.HistoryService

	// Settings supplies compression defaults and the settings resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
