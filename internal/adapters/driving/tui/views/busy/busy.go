// Package busy provides the spinner view shown while a file is compressed
// or uploaded.
package busy

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
)

// Labels shown next to the spinner.
const (
	LabelUploading   = "Uploading!"
	LabelCompressing = "Compressing..."
	LabelCopying     = "Copying..."
)

// View shows a spinner and a label. It has no key handling; the app blocks
// input while it is active.
type View struct {
	styles  *styles.Styles
	spinner spinner.Model
	label   string
	detail  string
	active  bool
}

// NewView creates a new busy view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Spinner

	return &View{
		styles:  s,
		spinner: sp,
	}
}

// Start shows label and detail and starts the spinner.
func (v *View) Start(label, detail string) tea.Cmd {
	v.label = label
	v.detail = detail
	v.active = true
	return v.spinner.Tick
}

// Stop hides the spinner. Pending ticks are ignored.
func (v *View) Stop() {
	v.active = false
}

// Active reports whether the spinner is running.
func (v *View) Active() bool {
	return v.active
}

// Label returns the current label.
func (v *View) Label() string {
	return v.label
}

// Update advances the spinner.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !v.active {
		return v, nil
	}
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(tick)
	return v, cmd
}

// View renders the spinner line.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.spinner.View())
	b.WriteString(" ")
	b.WriteString(v.styles.Normal.Render(v.label))
	if v.detail != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render(v.detail))
	}
	return b.String()
}
