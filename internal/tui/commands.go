package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/clientdash/internal/dashboard"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/realtime"
	"github.com/Makepad-fr/clientdash/internal/store"
)

type (
	loadResultMsg   struct{ res dashboard.LoadResult }
	mutateResultMsg struct{ res dashboard.MutateResult }
	eventMsg        struct{ ev realtime.Event }
	tickMsg         time.Time
	clearErrMsg     struct{ seq int }
)

// errDisplay is how long a failure stays on the status line.
const errDisplay = 4 * time.Second

func loadCmd(ctx context.Context, s store.Store, req dashboard.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		return loadResultMsg{dashboard.Fetch(ctx, s, req)}
	}
}

func mutateCmd(ctx context.Context, s store.Store, id string, st model.Status) tea.Cmd {
	return func() tea.Msg {
		return mutateResultMsg{dashboard.Mutate(ctx, s, id, st)}
	}
}

// waitForEvent blocks until the next pushed event. It yields nil once the
// source is closed, which ends the chain.
func waitForEvent(src EventSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev := <-src.Events():
			return eventMsg{ev}
		case <-src.Done():
			return nil
		}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func clearErrCmd(seq int) tea.Cmd {
	return tea.Tick(errDisplay, func(time.Time) tea.Msg { return clearErrMsg{seq} })
}
