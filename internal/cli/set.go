package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/clientdash/internal/dashboard"
	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

func (a *app) newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <pending|confirmed>",
		Short: "Change a client's status",
		Example: `  clientdash set client-3 confirmed
  clientdash --seed-file clients.json set client-7 pending`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			st, err := model.ParseStatus(args[1])
			if err != nil {
				return errors.NewValidationError(err.Error()).WithField("status")
			}
			log, err := a.logger(false)
			if err != nil {
				return err
			}
			defer log.Close()

			s, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			res := dashboard.Mutate(cmd.Context(), s, id, st)
			if res.Err != nil {
				if errors.IsNotFound(res.Err) {
					return fmt.Errorf("%w\nHint: run `clientdash ls` to see valid ids", res.Err)
				}
				return res.Err
			}
			saved, err := persist(a.cfg, s)
			if err != nil {
				return err
			}
			log.Info("status set", "id", id, "status", string(st), "persisted", saved)

			out := cmd.OutOrStdout()
			ui.OK(out, fmt.Sprintf("%s → %s", res.Record.ID, res.Record.Status))
			fmt.Fprintf(out, "%-12s %-18s %-13s %s\n",
				res.Record.ID, truncate(res.Record.DisplayName(), 18), res.Record.PhoneNumber, ui.Badge(res.Record.Status))
			return nil
		},
	}
}
