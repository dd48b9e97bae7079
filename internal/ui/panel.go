package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/clientdash/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// ProgressBar renders a Unicode progress bar with percentage.
// The percentage rounds half up, matching the dashboard statistics.
func ProgressBar(done, total, width int) string {
	if width < 5 {
		width = 5
	}
	filled, pct := 0, 0
	if total > 0 {
		filled = done * width / total
		pct = (200*done + total) / (2 * total)
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Badge renders a colored status label such as "• pending".
func Badge(s model.Status) string {
	t := Current()
	return C(t.StatusColor(s), t.StatusSymbol(s)+" "+string(s))
}

// Panel draws a framed box around lines using the current theme.
func Panel(lines []string) string {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := lipgloss.Width(stripANSI(ln)); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(stripANSI(s)); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		sb.WriteString(t.V + " " + pad(ln) + " " + t.V + "\n")
	}
	sb.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR + "\n")
	return sb.String()
}
