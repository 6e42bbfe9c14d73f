// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	Hint   string
	Action messages.Action
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Capture image", Hint: "compress a capture, then remove it", Action: messages.ActionCapture},
			{Label: "Pick image", Hint: "compress a copy of an image", Action: messages.ActionPickImage},
			{Label: "Pick document", Hint: "upload any file as-is", Action: messages.ActionPickDocument},
			{Label: "Upload", Hint: "send the selected file", Action: messages.ActionUpload},
			{Label: "History", Hint: "recent uploads", Action: messages.ActionHistory},
			{Label: "Quit", Action: messages.ActionQuit},
		},
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Action == messages.ActionQuit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ActionSelected{Action: item.Action}
			}

		case "?":
			return v, func() tea.Msg {
				return messages.ActionSelected{Action: messages.ActionHelp}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("bucketdrop"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Compress and upload to your bucket"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		label := v.styles.Normal.Render(item.Label)
		if i == v.selected {
			cursor = "> "
			label = v.styles.Selected.Render(item.Label)
		}

		b.WriteString(cursor + label)
		if i == v.selected && item.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [u] Upload  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
