package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// chromeHeight is the number of rows around the client list.
const chromeHeight = 13

func (m Model) View() string {
	sections := []string{
		m.titleView(),
		m.cardsView(),
		m.filterView(),
		m.bodyView(),
		m.statusView(),
		m.help.View(m.keys),
	}
	return m.styles.Frame.Render(strings.Join(sections, "\n"))
}

func (m Model) titleView() string {
	return m.styles.Title.Render("Client Dashboard") + "   " + m.connectionView()
}

func (m Model) connectionView() string {
	switch {
	case m.conn == nil:
		return m.styles.Muted.Render("○ Realtime off")
	case m.connected:
		return m.styles.Confirmed.Render("● Connected")
	default:
		return m.styles.Error.Render("○ Disconnected")
	}
}

func (m Model) cardsView() string {
	st := m.core.Statistics()
	card := func(label, value string) string {
		return m.styles.Card.Render(m.styles.Muted.Render(label) + "\n" + m.styles.CardValue.Render(value))
	}
	live := "off"
	if m.conn != nil {
		live = "on"
		if !m.connected {
			live = "retrying"
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", fmt.Sprintf("%d", st.Total)),
		card("Pending", fmt.Sprintf("%d  %d%%", st.Pending, st.PendingPercentage)),
		card("Confirmed", fmt.Sprintf("%d  %d%%", st.Confirmed, st.ConfirmedPercentage)),
		card("Live", live),
	)
}

func (m Model) filterView() string {
	active := m.core.Filter().Status
	labels := map[model.StatusFilter]string{
		model.StatusAll:             "All",
		model.StatusFilterPending:   "Pending",
		model.StatusFilterConfirmed: "Confirmed",
	}
	var buttons []string
	for i, f := range model.StatusFilters() {
		label := fmt.Sprintf("%d %s", i+1, labels[f])
		if f == active {
			buttons = append(buttons, m.styles.Active.Render(label))
		} else {
			buttons = append(buttons, m.styles.Button.Render(label))
		}
	}
	return strings.Join(buttons, " ") + "   " + m.search.View()
}

func (m Model) bodyView() string {
	switch {
	case m.core.Loading():
		return m.spinner.View() + " Loading clients..."
	case m.core.Empty():
		return m.styles.Muted.Render("No clients found")
	default:
		return header(m.styles) + "\n" + m.list.View()
	}
}

func (m Model) statusView() string {
	if m.errText == "" {
		return ""
	}
	return m.styles.Error.Render("✖ " + m.errText)
}
