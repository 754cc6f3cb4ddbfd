package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/UsatovPavel/RIID/internal/graph"
)

// Semantic colors. AdaptiveColor picks the variant for light or dark terminals.
//
//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for running tasks and informational text.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for succeeded tasks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for canceled tasks and warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed tasks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for skipped, up-to-date and not-run tasks.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// CheckNoColor switches Lip Gloss to plain ASCII when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StateColor returns the color of a task state.
func StateColor(s graph.State) lipgloss.AdaptiveColor {
	switch s {
	case graph.StateSucceeded:
		return ColorSuccess
	case graph.StateFailed:
		return ColorError
	case graph.StateCanceled:
		return ColorWarning
	case graph.StateRunning, graph.StatePending:
		return ColorPrimary
	case graph.StateSkipped, graph.StateUpToDate, graph.StateNotRun:
		return ColorMuted
	}
	return ColorMuted
}

// StateIcon returns the icon of a task state. Icon, color and label are
// always shown together so output stays readable without colors.
func StateIcon(s graph.State) string {
	switch s {
	case graph.StateSucceeded:
		return "✓"
	case graph.StateFailed:
		return "✗"
	case graph.StateCanceled:
		return "⊘"
	case graph.StateRunning:
		return "▶"
	case graph.StatePending:
		return "○"
	case graph.StateSkipped, graph.StateUpToDate, graph.StateNotRun:
		return "–"
	}
	return "?"
}

// RenderState renders the icon and label of a state in its color.
func RenderState(s graph.State) string {
	return lipgloss.NewStyle().Foreground(StateColor(s)).Render(StateIcon(s) + " " + s.Label())
}

// padRight pads s with spaces to the visible width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
