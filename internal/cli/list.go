package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/clientdash/internal/dashboard"
	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

type filterFlags struct {
	status string
	search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "all", "status filter: all, pending or confirmed")
	cmd.Flags().StringVar(&f.search, "search", "", "phone number substring")
}

func (f *filterFlags) filter() (model.Filter, error) {
	st, err := model.ParseStatusFilter(f.status)
	if err != nil {
		return model.Filter{}, errors.NewValidationError(err.Error()).WithField("status")
	}
	return model.Filter{Status: st, Search: f.search}, nil
}

func (a *app) newListCmd() *cobra.Command {
	var (
		ff    filterFlags
		group bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print clients with their status",
		Example: `  clientdash ls
  clientdash ls --status pending
  clientdash ls --search 612 --group`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
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
			core := dashboard.New(dashboard.WithLogger(log))
			rs, err := core.Load(cmd.Context(), s, f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Panel(listLines(rs, core.Statistics(), f, group)))
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().BoolVar(&group, "group", false, "group output by status")
	return cmd
}

func listLines(rs []model.Record, st dashboard.Statistics, f model.Filter, group bool) []string {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Clients"),
		ui.C(t.Confirmed, t.SymConfirmed), st.Confirmed,
		ui.C(t.Pending, t.SymPending), st.Pending,
		ui.C(t.Accent, "Total"), st.Total,
	)

	lines := []string{header}
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(st.Confirmed, st.Total, 28)))
	if f.Status != model.StatusAll || f.Search != "" {
		lines = append(lines, ui.C(t.Muted, "filter: "+f.String()))
	}
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(rs)...)
	} else {
		lines = append(lines, flatLines(rs)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: confirm with `clientdash set <id> confirmed`"))
	return lines
}

func flatLines(rs []model.Record) []string {
	if len(rs) == 0 {
		return []string{ui.C(ui.Current().Muted, "No clients found")}
	}
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, fmt.Sprintf("%-12s %-18s %-13s %s",
			r.ID, truncate(r.DisplayName(), 18), r.PhoneNumber, ui.Badge(r.Status)))
	}
	return out
}

func groupLines(rs []model.Record) []string {
	var pend, conf []model.Record
	for _, r := range rs {
		if r.Status == model.StatusConfirmed {
			conf = append(conf, r)
		} else {
			pend = append(pend, r)
		}
	}
	t := ui.Current()
	section := func(title string, rs []model.Record) []string {
		lines := []string{ui.C(t.Accent, title)}
		if len(rs) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Confirmed", conf)...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
