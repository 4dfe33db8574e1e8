package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nxfacts/internal/codec"
	"nxfacts/internal/config"
	"nxfacts/internal/dispatch"
	"nxfacts/internal/domain"
	"nxfacts/internal/facts"
	"nxfacts/internal/reach"
	"nxfacts/internal/repository/sqlite"
)

const fixtureHost = "fixtures"

type gatherOptions struct {
	host        string
	port        int
	username    string
	keyPath     string
	knownHosts  string
	fixtures    string
	subsets     []string
	format      string
	prefix      string
	concurrency int
	save        bool
	dbPath      string
	preflight   bool
}

func newGatherCmd(a *app) *cobra.Command {
	opts := &gatherOptions{}

	cmd := &cobra.Command{
		Use:   "gather",
		Short: "Collect facts from a device or a fixture directory",
		Long: "Run the commands of the selected subsets and print the normalized facts.\n\n" +
			"Subsets: default, interfaces, routing, config. Prefix a name with ! to exclude it; " +
			"all and !all select or drop everything. default is always collected.",
		Example: "  nxfacts gather --host 10.0.0.1 --user admin --subset all --subset '!config'\n" +
			"  nxfacts gather --fixtures ./testdata/nxos --format yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.apply(cmd, a.cfg)

			exporter, err := codec.ForFormat(opts.format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner, host, closeRunner, err := a.openRunner(ctx, opts)
			if err != nil {
				return err
			}
			defer closeRunner()

			g := facts.NewGatherer(runner, a.log,
				facts.WithPrefix(a.cfg.FactPrefix),
				facts.WithConcurrency(a.cfg.Concurrency),
			)
			res, err := g.Gather(ctx, a.cfg.GatherSubset)
			if err != nil {
				return fmt.Errorf("gather failed: %w", err)
			}
			a.log.Debug().Str("host", host).Strs("facts", res.Facts.Keys()).
				Int("warnings", len(res.Warnings)).Msg("gathered facts")

			snap := &domain.Snapshot{
				Host:      host,
				Hostname:  res.Facts.String(a.cfg.FactPrefix + domain.FactHostname),
				Subsets:   res.Subsets,
				Facts:     res.Facts,
				Warnings:  res.Warnings,
				CreatedAt: time.Now(),
			}

			if a.cfg.History.Enabled {
				if err := a.saveSnapshot(ctx, snap); err != nil {
					return err
				}
			}

			return exporter.Export(snap, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.host, "host", "", "Device address")
	f.IntVar(&opts.port, "port", 0, "SSH port")
	f.StringVarP(&opts.username, "user", "u", "", "SSH username (password from "+config.EnvPassword+")")
	f.StringVar(&opts.keyPath, "key", "", "SSH private key file")
	f.StringVar(&opts.knownHosts, "known-hosts", "", "known_hosts file for host key verification")
	f.StringVar(&opts.fixtures, "fixtures", "", "Read command output from this directory instead of a device")
	f.StringArrayVarP(&opts.subsets, "subset", "s", nil, "Subset to gather, repeatable (default from config: !config)")
	f.StringVarP(&opts.format, "format", "o", "json", fmt.Sprintf("Output format %v", codec.Formats()))
	f.StringVar(&opts.prefix, "prefix", "", "Fact key prefix (default ansible_net_)")
	f.IntVar(&opts.concurrency, "concurrency", 0, "Subsets fetched in parallel")
	f.BoolVar(&opts.save, "save", false, "Store the result in the history database")
	f.StringVar(&opts.dbPath, "db", "", "History database path")
	f.BoolVar(&opts.preflight, "preflight", false, "Check the SSH port with nmap before connecting")

	return cmd
}

// apply overlays flags the user set on top of the loaded config
func (o *gatherOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Device.Host = o.host
	}
	if changed("port") {
		cfg.Device.Port = o.port
	}
	if changed("user") {
		cfg.Device.Username = o.username
	}
	if changed("key") {
		cfg.Device.PrivateKeyPath = o.keyPath
	}
	if changed("known-hosts") {
		cfg.Device.KnownHostsPath = o.knownHosts
	}
	if changed("subset") {
		cfg.GatherSubset = o.subsets
	}
	if changed("prefix") {
		cfg.FactPrefix = o.prefix
	}
	if changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if changed("save") {
		cfg.History.Enabled = o.save
	}
	if changed("db") {
		cfg.History.Path = o.dbPath
	}
	if changed("preflight") {
		cfg.Preflight.Enabled = o.preflight
	}
}

// openRunner returns the command runner for this invocation and the host label the
// snapshot is filed under.
func (a *app) openRunner(ctx context.Context, opts *gatherOptions) (facts.Runner, string, func(), error) {
	if opts.fixtures != "" {
		runner, err := dispatch.NewFixtureRunner(opts.fixtures, a.log)
		if err != nil {
			return nil, "", nil, err
		}
		host := fixtureHost
		if a.cfg.Device.Host != "" {
			host = a.cfg.Device.Host
		}
		return runner, host, func() {}, nil
	}

	dev := a.cfg.Device
	if err := a.cfg.ValidateDevice(); err != nil {
		return nil, "", nil, fmt.Errorf("%w (use --host/--user or --fixtures)", err)
	}

	if a.cfg.Preflight.Enabled {
		prober := reach.NewProber(a.log, reach.WithTimeout(a.cfg.Preflight.Timeout.Duration()))
		res, err := prober.Check(ctx, dev.Host, dev.Port)
		if err != nil {
			return nil, "", nil, err
		}
		a.log.Info().Str("host", dev.Host).Int("port", dev.Port).Str("service", res.Service).
			Dur("elapsed", res.Elapsed).Msg("preflight ok")
	}

	cred, err := a.cfg.Credential()
	if err != nil {
		return nil, "", nil, err
	}

	runner := dispatch.NewSSHRunner(dispatch.SSHConfig{
		Host:           dev.Host,
		Port:           dev.Port,
		Credential:     cred,
		KnownHostsPath: dev.KnownHostsPath,
		ConnectTimeout: dev.ConnectTimeout.Duration(),
		CommandTimeout: dev.CommandTimeout.Duration(),
	}, a.log)

	closeRunner := func() {
		if err := runner.Close(); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Debug().Err(err).Msg("closing ssh connection")
		}
	}
	return runner, dev.Host, closeRunner, nil
}

func (a *app) saveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	repo, err := sqlite.New(a.cfg.History.Path, a.log)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer repo.Close()

	if err := repo.SaveRun(ctx, snap); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	a.log.Info().Str("run_id", snap.ID).Str("db", a.cfg.History.Path).Msg("saved gather run")
	return nil
}
