// Package history provides the recent uploads view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// pageSize is how many records are loaded.
const pageSize = 50

// View lists recent upload attempts.
type View struct {
	styles   *styles.Styles
	service  driving.HistoryService
	records  []domain.UploadRecord
	selected int
	offset   int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a new history view. A nil service shows an empty list.
func NewView(s *styles.Styles, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		width:   80,
		height:  24,
	}
}

// Load returns a command that fetches records with ctx.
func (v *View) Load(ctx context.Context) tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	service := v.service
	return func() tea.Msg {
		records, err := service.Recent(ctx, pageSize)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		v.records = msg.Records
		v.selected = 0
		v.offset = 0
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.records)-1 {
				v.selected++
			}
		case "esc", "q":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		}
		v.scroll()
	}
	return v, nil
}

// scroll keeps the selection inside the visible window.
func (v *View) scroll() {
	visible := v.visibleRows()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}
}

func (v *View) visibleRows() int {
	// Title, footer and the detail block
	rows := v.height - 10
	if rows < 3 {
		rows = 3
	}
	return rows
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Recent uploads"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("No uploads yet."))
	default:
		end := min(v.offset+v.visibleRows(), len(v.records))
		for i := v.offset; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(v.renderDetail(&v.records[v.selected]))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Esc] Back"))
	return b.String()
}

func (v *View) renderRow(i int) string {
	r := &v.records[i]
	cursor := "  "
	name := v.styles.Normal.Render(r.ObjectName)
	if i == v.selected {
		cursor = "> "
		name = v.styles.Selected.Render(r.ObjectName)
	}
	marker := v.styles.Notice(r.Status.Notice().Level).Render(styles.NoticeMarker(r.Status.Notice().Level))
	when := v.styles.Muted.Render(r.StartedAt.Local().Format("Jan 02 15:04"))
	return fmt.Sprintf("%s%s %s  %s", cursor, marker, when, name)
}

func (v *View) renderDetail(r *domain.UploadRecord) string {
	lines := []string{
		fmt.Sprintf("Bucket:  gs://%s/%s", r.Bucket, r.ObjectName),
		fmt.Sprintf("Source:  %s (%s)", r.FileName, r.Kind),
		fmt.Sprintf("Status:  %s in %s", r.Status.Notice().Message, r.Duration().Round(time.Millisecond)),
	}
	if r.Error != "" {
		lines = append(lines, "Error:   "+r.Error)
	}
	return v.styles.Muted.Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scroll()
}

// Records returns the loaded records.
func (v *View) Records() []domain.UploadRecord {
	return v.records
}

// Selected returns the highlighted index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
