package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// Theme bundles palette, symbols and box borders.
// ANSI fields drive CLI output; the lipgloss colors drive the TUI.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Pending, Confirmed                     string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymConfirmed, SymPending               string

	PendingColor, ConfirmedColor, AccentColor, ErrorColor, BorderColor lipgloss.TerminalColor
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed,
		Pending: fgYellow, Confirmed: fgGreen,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymConfirmed: "✔", SymPending: "•",

		PendingColor:   lipgloss.Color("214"),
		ConfirmedColor: lipgloss.Color("42"),
		AccentColor:    lipgloss.Color("12"),
		ErrorColor:     lipgloss.Color("9"),
		BorderColor:    lipgloss.Color("8"),
	}
}

// SetTheme selects classic, neon or mono. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Pending: "\033[93m", Confirmed: "\033[92m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymConfirmed: "✔", SymPending: "•",

			PendingColor:   lipgloss.Color("226"),
			ConfirmedColor: lipgloss.Color("48"),
			AccentColor:    lipgloss.Color("213"),
			ErrorColor:     lipgloss.Color("197"),
			BorderColor:    lipgloss.Color("51"),
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymConfirmed: "x", SymPending: "-",

			PendingColor:   lipgloss.NoColor{},
			ConfirmedColor: lipgloss.NoColor{},
			AccentColor:    lipgloss.NoColor{},
			ErrorColor:     lipgloss.NoColor{},
			BorderColor:    lipgloss.NoColor{},
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }

// StatusColor returns the ANSI color for a status.
func (t Theme) StatusColor(s model.Status) string {
	if s == model.StatusConfirmed {
		return t.Confirmed
	}
	return t.Pending
}

// StatusSymbol returns the bullet shown next to a status.
func (t Theme) StatusSymbol(s model.Status) string {
	if s == model.StatusConfirmed {
		return t.SymConfirmed
	}
	return t.SymPending
}
