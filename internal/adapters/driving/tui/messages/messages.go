// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewPicker is the file picker for captures, images and documents.
	ViewPicker
	// ViewBusy shows a spinner while staging or uploading.
	ViewBusy
	// ViewHistory lists recent uploads.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewPicker:
		return "picker"
	case ViewBusy:
		return "busy"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Action is a menu entry's effect.
type Action int

const (
	// ActionCapture picks a camera capture, removed once compressed.
	ActionCapture Action = iota
	// ActionPickImage picks a gallery image.
	ActionPickImage
	// ActionPickDocument picks any file to upload as-is.
	ActionPickDocument
	// ActionUpload uploads the selected file.
	ActionUpload
	// ActionHistory shows recent uploads.
	ActionHistory
	// ActionHelp shows the keybindings.
	ActionHelp
	// ActionQuit exits the application.
	ActionQuit
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionCapture:
		return "capture"
	case ActionPickImage:
		return "pick_image"
	case ActionPickDocument:
		return "pick_document"
	case ActionUpload:
		return "upload"
	case ActionHistory:
		return "history"
	case ActionHelp:
		return "help"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ActionSelected is sent when a menu entry is chosen.
type ActionSelected struct {
	Action Action
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// FileChosen is sent when the picker selects a file.
type FileChosen struct {
	Path   string
	Action Action
}

// PickCancelled is sent when the picker is closed without a selection.
type PickCancelled struct{}

// FileStaged carries the outcome of staging a picked file.
type FileStaged struct {
	File *domain.StagedFile
	Err  error
}

// UploadFinished carries the outcome of an upload.
type UploadFinished struct {
	Record *domain.UploadRecord
	Err    error
}

// HistoryLoaded carries recent upload records.
type HistoryLoaded struct {
	Records []domain.UploadRecord
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// NoticeShown carries a pipeline notice to the status line.
type NoticeShown struct {
	Notice domain.Notice
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
