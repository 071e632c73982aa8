package build

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/genmap/catalog"
	"github.com/c360studio/genmap/config"
	"github.com/c360studio/genmap/scan"
)

func newTestDriver(t *testing.T) (*Driver, string, string) {
	t.Helper()
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	cfg := config.DefaultConfig()
	cfg.Dataset.ID = "test"
	cfg.Build.InputDir = inputDir
	cfg.Build.OutputDir = outputDir
	cfg.Build.Workers = 2
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(cfg, logger), inputDir, outputDir
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const sampleNT = `<http://ex/s1> <http://ex/p1> <http://ex/o1> .
<http://ex/s2> <http://ex/p1> "v" .
<http://ex/s3> <http://ex/p2> <http://ex/o2> .
<http://ex/s4> <http://ex/p1> "w" .
`

func TestBuildEndToEnd(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)

	res, err := d.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Discovered)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 2, res.DistinctPredicates)
	assert.Equal(t, uint64(4), res.TotalOccurrences)

	// Merged TSV is count-descending.
	data, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "3\thttp://ex/p1\n1\thttp://ex/p2\n", string(data))

	// Merged ND-JSON carries derived local names.
	data, err = os.ReadFile(filepath.Join(outputDir, "test.ndjson"))
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 2)
	var r catalog.Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	assert.Equal(t, "p1", r.LocalName)
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &r))
	assert.Equal(t, "p2", r.LocalName)

	// Per-file artifacts exist under files/.
	assert.FileExists(t, filepath.Join(outputDir, "files", "dump.tsv"))
	assert.FileExists(t, filepath.Join(outputDir, "files", "dump.ndjson"))

	// Descriptor wraps the merged catalog.
	data, err = os.ReadFile(filepath.Join(outputDir, "test.descriptor.json"))
	require.NoError(t, err)
	var desc catalog.Descriptor
	require.NoError(t, json.Unmarshal(data, &desc))
	assert.Equal(t, "v1", desc.Version)
	require.Len(t, desc.Endpoints, 1)
	assert.Equal(t, "test", desc.Endpoints[0].ID)
	assert.Nil(t, desc.Endpoints[0].URL)
	assert.Nil(t, desc.Endpoints[0].TriplesSampled)
	require.Len(t, desc.Endpoints[0].Predicates, 2)
	assert.Equal(t, uint64(3), desc.Endpoints[0].Predicates[0].UsageCount)
}

func TestBuildMixedFormats(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)
	writeInput(t, inputDir, "extra.ttl", "@prefix ex: <http://ex/> .\nex:s ex:p2 ex:o .\n")

	res, err := d.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)

	data, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)
	// p1: 3 from dump.nt; p2: 1 + 1 across both files.
	assert.Equal(t, "3\thttp://ex/p1\n2\thttp://ex/p2\n", string(data))
}

func TestBuildSkipsUnparsableFile(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)
	writeInput(t, inputDir, "broken.ttl", "definitely not turtle {{{")

	res, err := d.Build(context.Background())
	require.NoError(t, err, "a file-level parse failure must not fail the build")
	assert.Equal(t, 2, res.Discovered)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Skipped)

	assert.NoFileExists(t, filepath.Join(outputDir, "files", "broken.tsv"))
	assert.FileExists(t, filepath.Join(outputDir, "test.tsv"))
}

func TestBuildSkipsEmptyResult(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)
	writeInput(t, inputDir, "empty.ttl", "@prefix ex: <http://ex/> .\n")

	res, err := d.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Skipped)
	assert.NoFileExists(t, filepath.Join(outputDir, "files", "empty.tsv"))
}

func TestBuildNoInputFiles(t *testing.T) {
	d, _, outputDir := newTestDriver(t)

	_, err := d.Build(context.Background())
	require.ErrorIs(t, err, ErrNoInputFiles)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "a failed discovery must not create outputs")
}

// stallingExtractor blocks until the context is cancelled, standing in
// for a long-running file scan.
type stallingExtractor struct {
	started chan struct{}
}

func (s *stallingExtractor) Extensions() []string { return []string{".slow"} }

func (s *stallingExtractor) Extract(ctx context.Context, path string, _ scan.EmitFunc) error {
	close(s.started)
	<-ctx.Done()
	return &scan.ParseError{File: path, Err: ctx.Err()}
}

func TestBuildCancelledStillMergesCompletedFiles(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)
	writeInput(t, inputDir, "stuck.slow", "never finishes")

	stall := &stallingExtractor{started: make(chan struct{})}
	reg := scan.NewRegistry()
	reg.Register(scan.NewLineExtractor())
	reg.Register(stall)
	d.registry = reg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stall.started
		cancel()
	}()

	res, err := d.Build(ctx)
	require.NoError(t, err, "cancellation must not fail the merge over completed artifacts")
	assert.Equal(t, 2, res.Discovered)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Skipped)

	// The completed file's counts survive the interrupted run.
	data, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "3\thttp://ex/p1\n1\thttp://ex/p2\n", string(data))
	assert.NoFileExists(t, filepath.Join(outputDir, "files", "stuck.slow.tsv"))
}

func TestBuildZeroWorkersConfig(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)

	// An unvalidated config may carry zero workers; the pool must
	// still make progress.
	d.cfg.Build.Workers = 0

	res, err := d.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.FileExists(t, filepath.Join(outputDir, "test.tsv"))
}

func TestBuildIdempotent(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)
	writeInput(t, inputDir, "more.nt", "<http://ex/s> <http://ex/p3> <http://ex/o> .\n")

	_, err := d.Build(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)

	_, err = d.Build(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestMergeOnlyReproducesFullBuild(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", sampleNT)

	_, err := d.Build(context.Background())
	require.NoError(t, err)
	full, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)

	// Remove the source; merge must work from artifacts alone.
	require.NoError(t, os.Remove(filepath.Join(inputDir, "dump.nt")))

	res, err := d.Merge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DistinctPredicates)

	merged, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)
	assert.Equal(t, string(full), string(merged))
}

func TestMergeWithoutArtifacts(t *testing.T) {
	d, _, _ := newTestDriver(t)
	_, err := d.Merge(context.Background())
	require.ErrorIs(t, err, ErrNoArtifacts)
}

func TestBuildIncrementalAcrossRuns(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "first.nt", "<http://ex/s> <http://ex/p1> <http://ex/o> .\n")

	_, err := d.Build(context.Background())
	require.NoError(t, err)

	writeInput(t, inputDir, "second.nt", "<http://ex/s> <http://ex/p1> <http://ex/o> .\n<http://ex/s> <http://ex/p2> <http://ex/o> .\n")

	res, err := d.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Discovered)

	data, err := os.ReadFile(filepath.Join(outputDir, "test.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "2\thttp://ex/p1\n1\thttp://ex/p2\n", string(data))
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	d, inputDir, outputDir := newTestDriver(t)
	writeInput(t, inputDir, "dump.nt", "<http://ex/s> <http://ex/p1> <http://ex/o> .\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(d, 50*time.Millisecond, d.logger)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	mergedPath := filepath.Join(outputDir, "test.tsv")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(mergedPath)
		return err == nil && string(data) == "1\thttp://ex/p1\n"
	}, 5*time.Second, 25*time.Millisecond, "initial build")

	writeInput(t, inputDir, "more.nt", "<http://ex/s> <http://ex/p2> <http://ex/o> .\n")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(mergedPath)
		return err == nil && string(data) == "1\thttp://ex/p1\n1\thttp://ex/p2\n"
	}, 5*time.Second, 25*time.Millisecond, "rebuild after change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
