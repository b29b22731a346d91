package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ringwalk/internal/cliconfig"
	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/metrics"
	"github.com/bft-labs/ringwalk/internal/report"
	"github.com/bft-labs/ringwalk/pkg/log"
	"github.com/bft-labs/ringwalk/pkg/ringwalk"
)

const longHelp = `Simulate random walkers on a wraparound 1-D domain split across a ring of workers.

Each worker owns a contiguous slice of [0, domainSize) and starts
walkersPerWorker walkers at its left edge, each with a random walk length
below maxWalkSize. Walkers that cross a slice boundary migrate to the next
worker on the ring until every walk is complete.`

var exampleUsage = strings.TrimSpace(`
  ringwalk 20 6 1
  ringwalk --workers 8 --seed 42 --transport tcp 1000 500 100
  ringwalk worker --rank 0 --peers 10.0.0.1:7000,10.0.0.2:7000 1000 500 100
  ringwalk watch --config $HOME/.ringwalk/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	if errors.Is(err, domain.ErrInvalidArgument) {
		if cmd == nil {
			cmd = root
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return 1
	}
	lg := cliconfig.NewLogger(stderr, "info")
	lg.Error().Err(err).Msg("ringwalk")
	return 1
}

// cli holds the state shared by all commands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:           "ringwalk [flags] domainSize maxWalkSize walkersPerWorker",
		Short:         "Distributed random-walk simulation on a ring of workers",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd, args); err != nil {
				return err
			}
			return c.runSimulation(cmd.Context(), c.cfg)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.ringwalk/config.toml)")
	pf.Int64Var(&c.cfg.Seed, "seed", c.cfg.Seed, "random seed (default: time-based)")
	pf.DurationVar(&c.cfg.DialTimeout, "dial-timeout", c.cfg.DialTimeout, "how long to wait for ring neighbors to connect")
	pf.StringVar(&c.cfg.MetricsAddr, "metrics-addr", c.cfg.MetricsAddr, "serve Prometheus metrics on this address, e.g. :9090")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&c.cfg.Quiet, "quiet", c.cfg.Quiet, "suppress per-worker progress lines")

	f := root.Flags()
	f.IntVarP(&c.cfg.Workers, "workers", "n", c.cfg.Workers, "number of workers on the ring")
	f.StringVar(&c.cfg.Transport, "transport", c.cfg.Transport, "migration transport: memory or tcp")
	f.IntVar(&c.cfg.Buffer, "buffer", c.cfg.Buffer, "batches buffered per ring edge (memory transport; 0 = rendezvous)")
	f.StringVar(&c.cfg.ListenHost, "listen-host", c.cfg.ListenHost, "host the tcp transport listens on")
	f.IntVar(&c.cfg.BasePort, "base-port", c.cfg.BasePort, "first tcp port; worker i uses base-port+i (0 = ephemeral)")
	f.StringVar(&c.cfg.ReportPath, "report", c.cfg.ReportPath, "write the run summary as JSON to this file")

	root.AddCommand(newWorkerCommand(c), newWatchCommand(c))
	return root
}

// load layers file, environment and flag values into c.cfg, then parses the
// positional arguments and validates the result.
func (c *cli) load(cmd *cobra.Command, args []string) error {
	changed := changedFlags(cmd)
	if err := c.applyFileAndEnv(&c.cfg, changed); err != nil {
		return err
	}
	if err := cliconfig.ParseArgs(&c.cfg, args); err != nil {
		return err
	}
	return c.cfg.Validate()
}

// applyFileAndEnv applies the config file (default $HOME/.ringwalk/config.toml)
// and RINGWALK_* variables without overriding flags the user set.
func (c *cli) applyFileAndEnv(cfg *cliconfig.Config, changed map[string]bool) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	} else if !cliconfig.FileExists(cfgFile) {
		return fmt.Errorf("%w: config file %s not found", domain.ErrInvalidArgument, cfgFile)
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

func (c *cli) logger(cfg cliconfig.Config) (zerolog.Logger, log.Logger) {
	zl := cliconfig.NewLogger(c.stderr, cfg.LogLevel)
	return zl, log.NewZerologAdapterWithLogger(zl)
}

// options builds the library options shared by every command.
func (c *cli) options(cfg cliconfig.Config, logger log.Logger) []ringwalk.Option {
	opts := []ringwalk.Option{ringwalk.WithLogger(logger)}
	if !cfg.Quiet {
		opts = append(opts, ringwalk.WithProgress(c.stdout))
	}
	if cfg.MetricsAddr != "" {
		opts = append(opts, ringwalk.WithMetrics())
	}
	return opts
}

// startMetrics starts the metrics server if an address is configured.
// The returned func shuts it down.
func (c *cli) startMetrics(cfg cliconfig.Config, zl zerolog.Logger) (func(), error) {
	if cfg.MetricsAddr == "" {
		return func() {}, nil
	}
	srv := metrics.NewServer(cfg.MetricsAddr)
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("start metrics server: %w", err)
	}
	zl.Info().Str("addr", srv.Addr()).Msg("serving metrics")

	return func() {
		if err := srv.Err(); err != nil {
			zl.Warn().Err(err).Msg("metrics server")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// runSimulation runs every worker in-process and prints the summary table.
func (c *cli) runSimulation(ctx context.Context, cfg cliconfig.Config) error {
	zl, logger := c.logger(cfg)
	zl.Debug().Interface("config", cfg).Msg("configuration")

	stopMetrics, err := c.startMetrics(cfg, zl)
	if err != nil {
		return err
	}
	defer stopMetrics()

	opts := c.options(cfg, logger)
	if cfg.ReportPath != "" {
		opts = append(opts, ringwalk.WithReportFile(cfg.ReportPath))
	}

	start := time.Now()
	summary, err := ringwalk.Run(ctx, ringwalk.Config{
		DomainSize:       cfg.DomainSize,
		MaxWalkSize:      cfg.MaxWalkSize,
		WalkersPerWorker: cfg.WalkersPerWorker,
		Workers:          cfg.Workers,
		Seed:             cfg.Seed,
		Transport:        cfg.Transport,
		Buffer:           cfg.Buffer,
		ListenHost:       cfg.ListenHost,
		BasePort:         cfg.BasePort,
		DialTimeout:      cfg.DialTimeout,
	}, opts...)
	if err != nil {
		return err
	}

	zl.Info().
		Int("total", summary.Total).
		Int("completed", summary.Completed).
		Dur("elapsed", time.Since(start)).
		Msg("simulation complete")

	if !cfg.Quiet {
		return report.Render(c.stdout, summary)
	}
	return nil
}
