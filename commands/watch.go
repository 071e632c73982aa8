package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/genmap/build"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	flags := &buildFlags{}
	var debounce string

	cmd := &cobra.Command{
		Use:   "watch [input_dir] [output_dir] [dataset_id]",
		Short: "Rebuild the catalog whenever the input directory changes",
		Long: `Watch performs an initial build and then monitors the input directory,
rebuilding after each settled batch of file changes. Useful while dumps
are being refreshed in place.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg, args)
			if debounce != "" {
				cfg.Watch.DebounceDelay = debounce
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			driver, cleanup := newDriver(ctx, cfg, opts.logger)
			defer cleanup()

			watcher := build.NewWatcher(driver, cfg.Watch.GetDebounceDelay(), opts.logger)
			return watcher.Run(ctx)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&debounce, "debounce", "", "delay before rebuilding after a change (default 2s)")
	return cmd
}
