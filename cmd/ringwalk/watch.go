package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/ringwalk/internal/app"
	"github.com/bft-labs/ringwalk/internal/cliconfig"
	"github.com/bft-labs/ringwalk/internal/domain"
)

func newWatchCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the simulation from a config file and re-run it when the file changes",
		Long: `Run the simulation described by a TOML config file, then watch the file
and run again after every change. domain_size, max_walk_size and
walkers_per_worker must be set in the file. Failed runs are logged and the
watch continues. Stop with Ctrl-C.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: watch takes no arguments, got %d", domain.ErrInvalidArgument, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.cfgPath
			if path == "" {
				path = cliconfig.DefaultConfigPath()
			}
			if path == "" || !cliconfig.FileExists(path) {
				return fmt.Errorf("%w: watch needs an existing --config file", domain.ErrInvalidArgument)
			}
			c.cfgPath = path

			base := c.cfg
			changed := changedFlags(cmd)
			zl, logger := c.logger(base)

			w := app.NewConfigWatcher(path, app.DefaultDebounceDelay, logger)
			return w.Run(cmd.Context(), func(ctx context.Context) {
				cfg := base
				if err := c.applyFileAndEnv(&cfg, changed); err != nil {
					zl.Error().Err(err).Msg("reload config")
					return
				}
				if err := cfg.Validate(); err != nil {
					zl.Error().Err(err).Msg("invalid config")
					return
				}
				if err := c.runSimulation(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
					zl.Error().Err(err).Msg("simulation failed")
				}
			})
		},
	}
}
