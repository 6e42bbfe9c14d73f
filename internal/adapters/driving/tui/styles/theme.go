// Package styles provides colour themes and styling for the TUI and the
// CLI notice line.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates a finished upload.
	Success lipgloss.Color

	// Warning indicates a cancelled upload or missing selection.
	Warning lipgloss.Color

	// Error indicates a failed upload.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#F57C00"), // Amber
		Secondary:  lipgloss.Color("#039BE5"), // Blue
		Foreground: lipgloss.Color("#ECEFF1"), // Light gray
		Muted:      lipgloss.Color("#78909C"), // Blue gray
		Success:    lipgloss.Color("#66BB6A"), // Green
		Warning:    lipgloss.Color("#FFCA28"), // Yellow
		Error:      lipgloss.Color("#EF5350"), // Red
		Border:     lipgloss.Color("#455A64"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for the highlighted menu item.
	Selected lipgloss.Style

	// Error style for failure notices.
	Error lipgloss.Style

	// Success style for success notices.
	Success lipgloss.Style

	// Warning style for informational notices.
	Warning lipgloss.Style

	// Spinner style for the upload spinner.
	Spinner lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Notice returns the style for a notice level.
func (s *Styles) Notice(level domain.NoticeLevel) lipgloss.Style {
	switch level {
	case domain.NoticeSuccess:
		return s.Success
	case domain.NoticeError:
		return s.Error
	default:
		return s.Warning
	}
}

// RenderNotice renders a notice with its level marker.
func (s *Styles) RenderNotice(n domain.Notice) string {
	return s.Notice(n.Level).Render(NoticeMarker(n.Level) + " " + n.Message)
}

// NoticeMarker returns the plain-text marker for a notice level.
func NoticeMarker(level domain.NoticeLevel) string {
	switch level {
	case domain.NoticeSuccess:
		return "✓"
	case domain.NoticeError:
		return "✗"
	default:
		return "•"
	}
}
