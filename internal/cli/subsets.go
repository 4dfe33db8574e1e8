package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nxfacts/internal/facts"
)

func newSubsetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subsets [token...]",
		Short: "Show which subsets and commands a gather_subset selection runs",
		Long: "Resolve gather_subset tokens without contacting a device. With no tokens the " +
			"configured gather_subset is used.",
		Example: "  nxfacts subsets all '!routing'",
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := a.cfg.GatherSubset
			if len(args) > 0 {
				requested = args
			}

			names, err := facts.ResolveSubsets(requested)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "requested: %s\n", strings.Join(requested, " "))
			for _, name := range names {
				fmt.Fprintf(out, "%s\n", name)
				for _, c := range facts.CommandsFor(name) {
					fmt.Fprintf(out, "  %s\n", c)
				}
			}
			return nil
		},
	}
}
