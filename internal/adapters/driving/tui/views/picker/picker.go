// Package picker provides the file picker view used for captures, images
// and documents.
package picker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
)

// ImageTypes are the extensions offered when picking an image.
var ImageTypes = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp",
	".JPG", ".JPEG", ".PNG", ".GIF", ".BMP", ".WEBP",
}

// minHeight keeps the list usable on small terminals.
const minHeight = 5

// View wraps a bubbles file picker.
type View struct {
	styles   *styles.Styles
	picker   filepicker.Model
	action   messages.Action
	startDir string
	warning  string
	width    int
	height   int
}

// NewView creates a picker starting in startDir. An empty startDir uses the
// home directory.
func NewView(s *styles.Styles, startDir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else {
			startDir = "."
		}
	}

	return &View{
		styles:   s,
		picker:   filepicker.New(),
		startDir: startDir,
		width:    80,
		height:   24,
	}
}

// Open resets the picker for action and returns the command that lists the
// start directory.
func (v *View) Open(action messages.Action) tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = v.startDir
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = v.listHeight()
	if action != messages.ActionPickDocument {
		fp.AllowedTypes = ImageTypes
	}

	v.picker = fp
	v.action = action
	v.warning = ""
	return v.picker.Init()
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return v, func() tea.Msg { return messages.PickCancelled{} }
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if selected, path := v.picker.DidSelectFile(msg); selected {
		action := v.action
		return v, tea.Batch(cmd, func() tea.Msg {
			return messages.FileChosen{Path: path, Action: action}
		})
	}
	if disabled, _ := v.picker.DidSelectDisabledFile(msg); disabled {
		v.warning = "Not an image. Use Pick document to upload it as-is."
	}

	return v, cmd
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(v.picker.View())
	b.WriteString("\n")
	if v.warning != "" {
		b.WriteString(v.styles.Warning.Render(v.warning))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [l/Enter] Open  [h] Up  [Enter] Select  [Esc] Back"))

	return b.String()
}

func (v *View) title() string {
	switch v.action {
	case messages.ActionCapture:
		return "Capture image (removed after compression)"
	case messages.ActionPickDocument:
		return "Pick document"
	default:
		return "Pick image"
	}
}

func (v *View) listHeight() int {
	// Title, directory, help and a spare line for warnings
	h := v.height - 8
	if h < minHeight {
		h = minHeight
	}
	return h
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.picker.Height = v.listHeight()
}

// Action returns the action the picker was opened for.
func (v *View) Action() messages.Action {
	return v.action
}

// AllowedTypes returns the extensions the picker accepts. Empty means any.
func (v *View) AllowedTypes() []string {
	return v.picker.AllowedTypes
}

// CurrentDirectory returns the directory being listed.
func (v *View) CurrentDirectory() string {
	return v.picker.CurrentDirectory
}

// Warning returns the last warning shown.
func (v *View) Warning() string {
	return v.warning
}
