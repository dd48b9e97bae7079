package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

// clientItem adapts a Record to bubbles/list.Item
type clientItem struct {
	model.Record
}

func (i clientItem) Title() string       { return i.DisplayName() }
func (i clientItem) Description() string { return i.PhoneNumber }
func (i clientItem) FilterValue() string { return i.PhoneNumber }

func toItems(rs []model.Record) []list.Item {
	items := make([]list.Item, len(rs))
	for i, r := range rs {
		items[i] = clientItem{r}
	}
	return items
}

// clientDelegate renders one client per line: id, name, phone, created, status.
type clientDelegate struct {
	styles ui.Styles
}

func (d clientDelegate) Height() int                               { return 1 }
func (d clientDelegate) Spacing() int                              { return 0 }
func (d clientDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d clientDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(clientItem)
	if !ok {
		return
	}
	col := func(s string, width int) string {
		return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
	}
	status := d.styles.Status(it.Status).Render(string(it.Status))

	line := col(it.ID, 14) +
		col(it.DisplayName(), 20) +
		col(it.PhoneNumber, 15) +
		d.styles.Muted.Render(col(it.CreatedAt.Format("2006-01-02"), 12)) +
		status

	prefix := "  "
	if index == m.Index() {
		prefix = d.styles.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}

func header(s ui.Styles) string {
	col := func(t string, width int) string {
		return lipgloss.NewStyle().Width(width).Render(t)
	}
	return "  " + s.Muted.Render(col("ID", 14)+col("NAME", 20)+col("PHONE", 15)+col("CREATED", 12)+"STATUS")
}
