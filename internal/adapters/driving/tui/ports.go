// Package tui provides an interactive terminal user interface for bucketdrop.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline stages and uploads files.
	Pipeline driving.PipelineService

	// History lists recent uploads. Optional.
	History driving.HistoryService

	// Settings is read for the bucket name shown in the header. Optional.
	Settings driving.SettingsService

	// StartDir is where the file picker opens. Empty means the home directory.
	StartDir string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	pipeline driving.PipelineService,
	history driving.HistoryService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Pipeline: pipeline,
		History:  history,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
