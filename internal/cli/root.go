// Package cli wires the nxfacts commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nxfacts/internal/config"
	"nxfacts/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// app holds state resolved once by the root command before any subcommand runs
type app struct {
	configPath string
	logLevel   string
	debug      bool

	cfg    *config.Config
	cfgSrc string
	log    logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "nxfacts",
		Short: "Gather normalized facts from Cisco NX-OS switches",
		Long: "nxfacts runs NX-OS show commands with JSON output and normalizes the results " +
			"into interface, LLDP, routing and identity facts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG, /etc)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGatherCmd(a))
	cmd.AddCommand(newSubsetsCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

// init loads configuration and builds the logger
func (a *app) init(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, a.cfgSrc, err = config.LoadFromPath(a.configPath)
	} else {
		a.cfg, a.cfgSrc, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := a.initLogger(cmd); err != nil {
		return err
	}
	if a.cfgSrc != "" {
		a.log.Debug().Str("path", a.cfgSrc).Msg("loaded config")
	}
	return nil
}

// initLogger builds the logger from a.cfg and the logging flags
func (a *app) initLogger(cmd *cobra.Command) error {
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.debug {
		a.cfg.Log.Debug = true
	}

	var out io.Writer = cmd.ErrOrStderr()
	if strings.EqualFold(a.cfg.Log.Output, "stdout") {
		out = cmd.OutOrStdout()
	}
	var err error
	a.log, err = logger.NewWithWriter(a.cfg.Log, out)
	return err
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}
