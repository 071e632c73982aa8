// Package build orchestrates catalog builds over one input directory:
// discover input files, extract and count predicates per file on a
// bounded worker pool, merge the per-file artifacts, and write the
// dataset-scoped outputs.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/c360studio/genmap/announce"
	"github.com/c360studio/genmap/catalog"
	"github.com/c360studio/genmap/config"
	"github.com/c360studio/genmap/scan"
	"github.com/c360studio/genmap/vocabulary/wellknown"
)

// ErrNoInputFiles aborts a build when discovery finds nothing to
// process. It is the only fatal build error; individual file failures
// are warnings.
var ErrNoInputFiles = errors.New("no input files found")

// ErrNoArtifacts aborts a merge-only run when no per-file artifacts
// exist in the output directory.
var ErrNoArtifacts = errors.New("no per-file artifacts found")

// reportTopN is how many leading predicates the build report lists.
const reportTopN = 5

// Driver runs the build state machine. All artifact state lives in
// the output directory; the Driver itself holds none across runs.
type Driver struct {
	cfg       *config.Config
	registry  *scan.Registry
	logger    *slog.Logger
	publisher *announce.Publisher
}

// New creates a Driver using the default extractor registry.
func New(cfg *config.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		cfg:      cfg,
		registry: scan.DefaultRegistry,
		logger:   logger,
	}
}

// SetPublisher attaches an optional descriptor publisher. A nil
// publisher disables publication.
func (d *Driver) SetPublisher(p *announce.Publisher) {
	d.publisher = p
}

// Result summarizes one build run.
type Result struct {
	RunID              string
	Discovered         int
	Succeeded          int
	Skipped            int
	DistinctPredicates int
	TotalOccurrences   uint64
	OutputPaths        []string
}

// Build runs the full pipeline. Cancelling the context stops the
// remaining file processing but the merge still runs over whatever
// per-file artifacts completed, keeping partial progress usable.
func (d *Driver) Build(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := d.logger.With(slog.String("run_id", runID))

	files, err := d.discover()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, d.cfg.Build.InputDir)
	}
	logger.Info("discovered input files",
		slog.Int("count", len(files)),
		slog.String("input_dir", d.cfg.Build.InputDir))

	layout := d.layout()
	if err := os.MkdirAll(layout.FilesDir(), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var succeeded atomic.Int64
	d.processFiles(ctx, layout, files, logger, &succeeded)

	if ctx.Err() != nil {
		logger.Warn("build interrupted, merging completed artifacts only")
	}

	result, err := d.mergeAndFormat(ctx, runID, layout, logger)
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	result.Discovered = len(files)
	result.Succeeded = int(succeeded.Load())
	result.Skipped = len(files) - result.Succeeded
	return result, nil
}

// Merge runs MERGE and FORMAT_OUTPUTS over the per-file artifacts
// already on disk, without rescanning any source file.
func (d *Driver) Merge(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := d.logger.With(slog.String("run_id", runID))

	result, err := d.mergeAndFormat(ctx, runID, d.layout(), logger)
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	return result, nil
}

func (d *Driver) layout() Layout {
	return Layout{OutputDir: d.cfg.Build.OutputDir, Dataset: d.cfg.Dataset.ID}
}

// discover enumerates input files by supported extension, walking the
// input directory recursively. Detection is by extension only.
func (d *Driver) discover() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, ext := range d.registry.Extensions() {
		pattern := filepath.Join(d.cfg.Build.InputDir, "**", "*"+ext)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// processFiles fans the PROCESS_FILE stage out over a bounded worker
// pool and waits for it to drain. Files are independent: each worker
// owns its counter and writes a distinct artifact, so no locking is
// needed beyond the pool itself.
func (d *Driver) processFiles(ctx context.Context, layout Layout, files []string, logger *slog.Logger, succeeded *atomic.Int64) {
	jobs := make(chan string)
	var wg sync.WaitGroup

	// Guard against an unvalidated config; zero workers would leave
	// the feed loop blocked forever.
	workers := d.cfg.Build.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if d.processFile(ctx, layout, path, logger) {
					succeeded.Add(1)
				}
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()
}

// processFile runs Adapter → Counter → per-file artifact for one
// input. Returns true when an artifact was written.
func (d *Driver) processFile(ctx context.Context, layout Layout, path string, logger *slog.Logger) bool {
	counter := catalog.NewCounter()
	if err := d.registry.Extract(ctx, path, counter.Add); err != nil {
		filesProcessed.WithLabelValues(outcomeParseError).Inc()
		logger.Warn("skipping unparsable file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return false
	}

	if counter.Distinct() == 0 {
		filesProcessed.WithLabelValues(outcomeEmpty).Inc()
		logger.Info("file yielded no predicate occurrences, skipping",
			slog.String("file", path))
		return false
	}

	stem := scan.Stem(path)
	if err := layout.WritePerFile(stem, counter.Catalog()); err != nil {
		filesProcessed.WithLabelValues(outcomeWriteError).Inc()
		logger.Warn("failed to write per-file artifact",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return false
	}

	filesProcessed.WithLabelValues(outcomeOK).Inc()
	occurrencesCounted.Add(float64(counter.Total()))
	logger.Debug("processed file",
		slog.String("file", path),
		slog.String("stem", stem),
		slog.Uint64("occurrences", counter.Total()),
		slog.Int("distinct", counter.Distinct()))
	return true
}

// mergeAndFormat runs the MERGE, FORMAT_OUTPUTS, and REPORT stages.
func (d *Driver) mergeAndFormat(ctx context.Context, runID string, layout Layout, logger *slog.Logger) (*Result, error) {
	catalogs, stems, err := layout.LoadPerFileCatalogs()
	if err != nil {
		return nil, err
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoArtifacts, layout.FilesDir())
	}
	logger.Info("merging per-file catalogs", slog.Int("count", len(stems)))

	merged := catalog.Merge(catalogs...)
	distinctPredicates.Set(float64(len(merged)))

	builtAt := time.Now()
	outputs, err := layout.WriteMerged(merged, d.cfg.Dataset.URL, builtAt)
	if err != nil {
		return nil, err
	}

	desc := catalog.NewDescriptor(d.cfg.Dataset.ID, d.cfg.Dataset.URL, builtAt, merged)
	if err := d.publisher.PublishDescriptor(ctx, runID, d.cfg.Dataset.ID, desc); err != nil {
		// Publication is best-effort; the artifacts on disk are the
		// source of truth.
		logger.Warn("descriptor publication failed", slog.String("error", err.Error()))
	}

	d.report(logger, merged, outputs)
	return &Result{
		DistinctPredicates: len(merged),
		TotalOccurrences:   merged.Total(),
		OutputPaths:        outputs,
	}, nil
}

// report logs the build summary and the leading predicates in compact
// prefix form.
func (d *Driver) report(logger *slog.Logger, merged catalog.Catalog, outputs []string) {
	logger.Info("build complete",
		slog.Int("distinct_predicates", len(merged)),
		slog.Uint64("occurrences", merged.Total()))
	for i, e := range merged {
		if i >= reportTopN {
			break
		}
		logger.Info("top predicate",
			slog.Int("rank", i+1),
			slog.String("predicate", wellknown.Curie(catalog.TrimToken(e.Token))),
			slog.Uint64("count", e.Count))
	}
	for _, path := range outputs {
		logger.Info("wrote artifact", slog.String("path", path))
	}
}
