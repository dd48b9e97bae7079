package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// Styles are the lipgloss styles used by the TUI, derived from a Theme.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Pending   lipgloss.Style
	Confirmed lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
	Card      lipgloss.Style
	CardValue lipgloss.Style
	Frame     lipgloss.Style
	Button    lipgloss.Style
	Active    lipgloss.Style
}

// NewStyles builds the TUI styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(t.AccentColor),
		Error:     lipgloss.NewStyle().Foreground(t.ErrorColor).Bold(true),
		Pending:   lipgloss.NewStyle().Foreground(t.PendingColor),
		Confirmed: lipgloss.NewStyle().Foreground(t.ConfirmedColor),
		Selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Help:      lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderColor).
			Padding(0, 2).
			Width(18),
		CardValue: lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderColor).
			Padding(0, 1),
		Button: lipgloss.NewStyle().Padding(0, 1).Faint(true),
		Active: lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true),
	}
}

// Status returns the style for a status value.
func (s Styles) Status(st model.Status) lipgloss.Style {
	if st == model.StatusConfirmed {
		return s.Confirmed
	}
	return s.Pending
}
