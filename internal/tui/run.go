package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
