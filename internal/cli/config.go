package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nxfacts/internal/config"
)

// ErrConfigExists is returned by config init when the target file is already there
var ErrConfigExists = errors.New("config file already exists")

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the nxfacts config file",
	}
	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Long: "Write a config file with default settings to --path, the --config location, " +
			"or the user config directory.",
		Args: cobra.NoArgs,
		// starts from defaults; no config file is read
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.DefaultConfig()
			return a.initLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				target = a.configPath
			}
			if target == "" {
				target = config.DefaultConfigPath()
			}

			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, target)
			}
			if err := config.DefaultConfig().Save(target); err != nil {
				return err
			}
			a.log.Debug().Str("path", target).Msg("wrote config")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the file (default: --config or "+config.DefaultConfigPath()+")")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print where the config was loaded from and its main settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.cfgSrc
			if src == "" {
				src = "defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "source: %s\n%s\n", src, a.cfg.Summary())
			return nil
		},
	}
}
