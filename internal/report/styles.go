// Package report writes lint reports in the supported output formats.
package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	Path      lipgloss.Style
	Position  lipgloss.Style
	Severity  lipgloss.Style
	Cop       lipgloss.Style
	Corrected lipgloss.Style
	Summary   lipgloss.Style
	Clean     lipgloss.Style
	Warn      lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Path:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Position:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Severity:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Cop:       lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Corrected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Summary:   lipgloss.NewStyle().Bold(true),
		Clean:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Warn:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Path:      plain,
		Position:  plain,
		Severity:  plain,
		Cop:       plain,
		Corrected: plain,
		Summary:   plain,
		Clean:     plain,
		Warn:      plain,
		Muted:     plain,
	}
}
