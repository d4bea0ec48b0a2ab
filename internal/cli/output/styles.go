package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles shared by all commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// newStyles builds the style set. With styling disabled (non-TTY or a
// machine-readable mode) every style renders as plain text, so the same
// rendering code serves both paths.
func newStyles(styled bool) *Styles {
	if !styled || termenv.EnvColorProfile() == termenv.Ascii {
		return &Styles{}
	}
	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Underline(true),
		Header2: lipgloss.NewStyle().Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}
