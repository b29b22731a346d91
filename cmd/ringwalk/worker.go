package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/ringwalk/internal/cliconfig"
	"github.com/bft-labs/ringwalk/pkg/ringwalk"
)

func newWorkerCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker --rank R --peers host:port,... domainSize maxWalkSize walkersPerWorker",
		Short: "Run a single worker of a multi-process ring over TCP",
		Long: `Run one worker and exchange walkers with its ring neighbors over TCP.

Start one process per entry in --peers, each with its own --rank and the
same peers and positional arguments. Worker R listens on peers[R].
Pass the same --seed to every process for a reproducible run.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadWorker(cmd, args); err != nil {
				return err
			}
			return c.runWorker(cmd)
		},
	}

	cmd.Flags().IntVar(&c.cfg.Rank, "rank", c.cfg.Rank, "this worker's index into --peers")
	cmd.Flags().StringSliceVar(&c.cfg.Peers, "peers", c.cfg.Peers, "listen address of every worker, in rank order")
	return cmd
}

func (c *cli) loadWorker(cmd *cobra.Command, args []string) error {
	changed := changedFlags(cmd)
	if err := c.applyFileAndEnv(&c.cfg, changed); err != nil {
		return err
	}
	if err := cliconfig.ParseArgs(&c.cfg, args); err != nil {
		return err
	}
	return c.cfg.ValidateWorker()
}

func (c *cli) runWorker(cmd *cobra.Command) error {
	cfg := c.cfg
	zl, logger := c.logger(cfg)

	stopMetrics, err := c.startMetrics(cfg, zl)
	if err != nil {
		return err
	}
	defer stopMetrics()

	stats, err := ringwalk.RunWorker(cmd.Context(), ringwalk.WorkerConfig{
		Rank:             cfg.Rank,
		Peers:            cfg.Peers,
		DomainSize:       cfg.DomainSize,
		MaxWalkSize:      cfg.MaxWalkSize,
		WalkersPerWorker: cfg.WalkersPerWorker,
		Seed:             cfg.Seed,
		DialTimeout:      cfg.DialTimeout,
	}, c.options(cfg, logger)...)
	if err != nil {
		return err
	}

	zl.Info().
		Int("worker", stats.Worker).
		Int("initiated", stats.Initiated).
		Int("completed", stats.Completed).
		Int("sent", stats.Sent).
		Int("received", stats.Received).
		Msg("worker finished")

	if stats.Stranded > 0 {
		return fmt.Errorf("%w: worker %d holds %d walkers after the last round",
			ringwalk.ErrIncomplete, stats.Worker, stats.Stranded)
	}
	return nil
}
