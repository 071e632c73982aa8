// Package commands provides the genmap CLI commands.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/genmap/config"
)

// rootOptions carries the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	logger     *slog.Logger
}

// NewRoot builds the genmap root command.
func NewRoot(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "genmap",
		Short:   "Predicate-usage index builder for RDF datasets",
		Version: version,
		Long: `Genmap scans RDF dump files (N-Triples, RDF/XML, Turtle, N3), counts
predicate usage per file and per dataset, and emits TSV and
line-delimited JSON catalogs plus an endpoint descriptor document.

The descriptor is consumed downstream as a per-dataset predicate index
during query translation.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(opts.logLevel)
			slog.SetDefault(opts.logger)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default: genmap.yaml in the working directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newBuildCmd(opts),
		newMergeCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// loadConfig loads the layered configuration for a subcommand.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.NewLoader(o.logger).Load(o.configPath)
}

// newLogger builds the process logger writing to stderr.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
