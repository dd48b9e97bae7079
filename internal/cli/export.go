package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/clientdash/internal/store/jsonstore"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

func (a *app) newExportCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write matching clients to a JSON seed file",
		Long: `Export queries the store and writes the matching clients as a JSON
array. The file can be used as --seed-file for the mock store or the server.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			s, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			rs, err := s.Query(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := jsonstore.Save(args[0], rs); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d clients to %s", len(rs), args[0]))
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}
