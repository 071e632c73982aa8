package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newMergeCmd(opts *rootOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "merge [output_dir] [dataset_id]",
		Short: "Re-merge existing per-file artifacts without rescanning sources",
		Long: `Merge combines the per-file frequency tables already present in the
output directory into fresh merged artifacts and a descriptor. Sources
are not rescanned, so artifacts from a prior or partial run are reused
as-is.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Build.OutputDir = args[0]
			}
			if len(args) > 1 {
				cfg.Dataset.ID = args[1]
			}
			flags.apply(cfg, nil)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			driver, cleanup := newDriver(ctx, cfg, opts.logger)
			defer cleanup()

			res, err := driver.Merge(ctx)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.endpointURL, "endpoint-url", "", "dataset SPARQL endpoint URL recorded in the descriptor")
	cmd.Flags().StringVar(&flags.natsURL, "nats-url", "", "NATS server URL for descriptor publication")
	return cmd
}
