package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nxfacts/internal/codec"
	"nxfacts/internal/domain"
	"nxfacts/internal/repository/sqlite"
)

func newHistoryCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored gather runs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd); err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				a.cfg.History.Path = dbPath
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "History database path (default from config)")

	cmd.AddCommand(newHistoryListCmd(a))
	cmd.AddCommand(newHistoryShowCmd(a))
	cmd.AddCommand(newHistoryDeleteCmd(a))
	return cmd
}

func (a *app) openHistory() (*sqlite.Repository, error) {
	repo, err := sqlite.New(a.cfg.History.Path, a.log)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return repo, nil
}

func newHistoryListCmd(a *app) *cobra.Command {
	var (
		host  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openHistory()
			if err != nil {
				return err
			}
			defer repo.Close()

			runs, err := repo.ListRuns(cmd.Context(), host, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tHOST\tHOSTNAME\tSUBSETS\tWARNINGS\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.Host, r.Hostname, strings.Join(r.Subsets, ","), r.WarningCount,
					r.CreatedAt.Local().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Only runs for this device")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var (
		latest string
		format string
	)

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored run",
		Example: "  nxfacts history show 3f0c2c1e-5a55-4e0b-9c4c-0f1d2a8f6b7e\n" +
			"  nxfacts history show --latest 10.0.0.1 --format ansible",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (latest == "") {
				return fmt.Errorf("give either a run id or --latest <host>")
			}

			exporter, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			repo, err := a.openHistory()
			if err != nil {
				return err
			}
			defer repo.Close()

			var snap *domain.Snapshot
			if latest != "" {
				snap, err = repo.LatestRun(cmd.Context(), latest)
			} else {
				snap, err = repo.GetRun(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			return exporter.Export(snap, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&latest, "latest", "", "Show the newest run for this device")
	cmd.Flags().StringVarP(&format, "format", "o", "json", fmt.Sprintf("Output format %v", codec.Formats()))
	return cmd
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openHistory()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
