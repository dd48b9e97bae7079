package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock store and push server",
		Long: `Serve exposes the mock store over HTTP (GET/POST /clients,
PATCH /clients/{id}) and broadcasts every change on the /ws websocket.

Point a dashboard at it with --store-url http://localhost:4000.`,
		Example: `  clientdash serve --simulate 2s
  clientdash serve --seed-file clients.json --watch`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Server.Watch && a.cfg.Store.SeedFile == "" {
				return usageError{fmt.Errorf("--watch needs --seed-file")}
			}
			log, err := a.logger(false)
			if err != nil {
				return err
			}
			defer log.Close()

			st, err := openMemstore(a.cfg)
			if err != nil {
				return err
			}
			srv := server.New(st, event.NewBus(log), log)
			out := cmd.OutOrStdout()
			return srv.Run(cmd.Context(), server.Options{
				Addr:     a.cfg.Server.Addr,
				Simulate: a.cfg.Server.Simulate,
				SeedFile: a.cfg.Store.SeedFile,
				Watch:    a.cfg.Server.Watch,
				Ready: func(addr string) {
					fmt.Fprintf(out, "serving %d clients on http://%s\n", st.Len(), addr)
				},
			})
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address (default :4000)")
	f.Duration("simulate", 0, "create or flip a random client at this interval")
	f.Bool("watch", false, "reload the seed file when it changes")
	_ = a.v.BindPFlag("server.addr", f.Lookup("addr"))
	_ = a.v.BindPFlag("server.simulate", f.Lookup("simulate"))
	_ = a.v.BindPFlag("server.watch", f.Lookup("watch"))
	return cmd
}
