package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/genmap/build"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	nt := "<http://ex/s> <http://ex/p1> <http://ex/o> .\n<http://ex/s> <http://ex/p1> \"v\" .\n"
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "dump.nt"), []byte(nt), 0644))

	out, err := runCommand(t, "build", inputDir, outputDir, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "distinct predicates: 1")
	assert.FileExists(t, filepath.Join(outputDir, "demo.tsv"))
	assert.FileExists(t, filepath.Join(outputDir, "demo.ndjson"))
	assert.FileExists(t, filepath.Join(outputDir, "demo.descriptor.json"))
}

func TestBuildCommandNoInputs(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	_, err := runCommand(t, "build", inputDir, outputDir, "demo")
	require.ErrorIs(t, err, build.ErrNoInputFiles)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMergeCommand(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	nt := "<http://ex/s> <http://ex/p1> <http://ex/o> .\n"
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "dump.nt"), []byte(nt), 0644))

	_, err := runCommand(t, "build", inputDir, outputDir, "demo")
	require.NoError(t, err)

	// Merge works from artifacts alone.
	require.NoError(t, os.Remove(filepath.Join(inputDir, "dump.nt")))
	out, err := runCommand(t, "merge", outputDir, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "distinct predicates: 1")
}

func TestVersionFlag(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genmap.yaml")

	out, err := runCommand(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	out, err = runCommand(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "input_dir: data")
	assert.Contains(t, out, "id: local")
}
