// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady  State = "ready"
	StateBusy   State = "busy"
	StatePicker State = "picker"
)

// Bar displays the last notice, the current selection and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	notice    *domain.Notice
	selection string
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft shows the last notice, falling back to the selection.
func (s *Bar) renderLeft() string {
	if s.notice != nil {
		return s.styles.RenderNotice(*s.notice)
	}
	if s.selection != "" {
		return s.styles.Normal.Render("Selected: " + s.selection)
	}
	return s.styles.Muted.Render("No file selected")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateBusy:
		bindings = s.keymap.BusyHelp()
	case StatePicker:
		bindings = s.keymap.PickerHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetNotice replaces the displayed notice.
func (s *Bar) SetNotice(n domain.Notice) {
	s.notice = &n
}

// ClearNotice removes the displayed notice so the selection shows again.
func (s *Bar) ClearNotice() {
	s.notice = nil
}

// Notice returns the displayed notice, or nil.
func (s *Bar) Notice() *domain.Notice {
	return s.notice
}

// SetSelection sets the object name of the selected file. Empty clears it.
func (s *Bar) SetSelection(name string) {
	s.selection = name
}

// Selection returns the displayed selection.
func (s *Bar) Selection() string {
	return s.selection
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.notice = nil
	s.selection = ""
}
