package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/genmap/announce"
	"github.com/c360studio/genmap/build"
	"github.com/c360studio/genmap/config"
)

// buildFlags are the flag overrides shared by build and watch.
type buildFlags struct {
	workers     int
	endpointURL string
	natsURL     string
	metricsAddr string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of files processed concurrently (default: number of CPUs)")
	cmd.Flags().StringVar(&f.endpointURL, "endpoint-url", "", "dataset SPARQL endpoint URL recorded in the descriptor")
	cmd.Flags().StringVar(&f.natsURL, "nats-url", "", "NATS server URL for descriptor publication")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "listen address for Prometheus /metrics")
}

// apply overlays positional arguments (input_dir, output_dir,
// dataset_id) and flag values onto the loaded config.
func (f *buildFlags) apply(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Build.InputDir = args[0]
	}
	if len(args) > 1 {
		cfg.Build.OutputDir = args[1]
	}
	if len(args) > 2 {
		cfg.Dataset.ID = args[2]
	}
	if f.workers > 0 {
		cfg.Build.Workers = f.workers
	}
	if f.endpointURL != "" {
		cfg.Dataset.URL = f.endpointURL
	}
	if f.natsURL != "" {
		cfg.NATS.URL = f.natsURL
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [input_dir] [output_dir] [dataset_id]",
		Short: "Scan RDF dumps and build the predicate catalog",
		Long: `Build discovers RDF dump files in the input directory, counts
predicate usage per file, merges the per-file catalogs, and writes the
dataset artifacts.

A file that fails to parse or yields no occurrences is skipped with a
warning; the build fails only when no input files are found at all.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg, args)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			driver, cleanup := newDriver(ctx, cfg, opts.logger)
			defer cleanup()

			res, err := driver.Build(ctx)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// newDriver assembles a driver with the optional metrics listener and
// NATS publisher wired in. The returned cleanup closes the publisher.
func newDriver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*build.Driver, func()) {
	if cfg.Metrics.Addr != "" {
		build.ServeMetrics(ctx, cfg.Metrics.Addr, logger)
	}

	driver := build.New(cfg, logger)
	cleanup := func() {}

	if cfg.NATS.URL != "" {
		pub, err := announce.Connect(cfg.NATS.URL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, descriptor publication disabled",
				slog.String("error", err.Error()))
		} else {
			driver.SetPublisher(pub)
			cleanup = pub.Close
		}
	}
	return driver, cleanup
}

// printResult emits the build summary to stdout for scripting; the
// structured report already went to the log.
func printResult(cmd *cobra.Command, res *build.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "distinct predicates: %d\n", res.DistinctPredicates)
	for _, path := range res.OutputPaths {
		fmt.Fprintln(out, path)
	}
}
