package cli

import (
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/clientdash/internal/dashboard"
	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/realtime"
	"github.com/Makepad-fr/clientdash/internal/tui"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

func (a *app) newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runDash,
	}
}

func (a *app) runDash(cmd *cobra.Command, _ []string) error {
	log, err := a.logger(true)
	if err != nil {
		return err
	}
	defer log.Close()

	s, err := openStore(a.cfg)
	if err != nil {
		return err
	}
	mode, err := dashboard.ParseRefreshMode(a.cfg.Sync.RefreshMode)
	if err != nil {
		return errors.NewValidationError(err.Error()).WithField("sync.refresh_mode")
	}

	opts := tui.Options{
		Store:        s,
		Core:         dashboard.New(dashboard.WithRefreshMode(mode), dashboard.WithLogger(log)),
		TickInterval: a.cfg.UI.TickInterval,
		Theme:        ui.Current(),
		Log:          log,
	}

	if a.cfg.Realtime.Enabled {
		ch := realtime.New(a.cfg.Realtime.URL,
			realtime.WithReconnect(a.cfg.Realtime.ReconnectAttempts, a.cfg.Realtime.ReconnectDelay),
			realtime.WithHeartbeat(0, a.cfg.Realtime.Heartbeat),
			realtime.WithLogger(log),
		)
		// subscribe before connecting so no early event is missed
		q := realtime.NewQueue(ch, a.cfg.Realtime.QueueSize)
		ch.Connect()
		defer func() {
			// release a read goroutine blocked on a full queue first
			q.Close()
			ch.Disconnect()
		}()
		opts.Events = q
		opts.Conn = ch
	}

	log.Info("dashboard starting", "store", storeName(a.cfg.Store.URL), "realtime", a.cfg.Realtime.Enabled, "mode", string(mode))
	return tui.Run(cmd.Context(), opts)
}

func storeName(url string) string {
	if url == "" {
		return "mock"
	}
	return url
}
