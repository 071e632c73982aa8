package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/c360studio/genmap/catalog"
)

// filesSubdir holds per-file artifacts under the output directory,
// keeping them separable from the merged dataset artifacts.
const filesSubdir = "files"

// Layout computes artifact paths inside one output directory:
//
//	<out>/files/<stem>.tsv       per-file frequency table
//	<out>/files/<stem>.ndjson    per-file record catalog
//	<out>/<dataset>.tsv          merged frequency table
//	<out>/<dataset>.ndjson       merged record catalog
//	<out>/<dataset>.descriptor.json
type Layout struct {
	OutputDir string
	Dataset   string
}

// FilesDir returns the per-file artifact directory.
func (l Layout) FilesDir() string {
	return filepath.Join(l.OutputDir, filesSubdir)
}

// PerFileTSV returns the frequency-table path for an input stem.
func (l Layout) PerFileTSV(stem string) string {
	return filepath.Join(l.FilesDir(), stem+".tsv")
}

// PerFileNDJSON returns the record-catalog path for an input stem.
func (l Layout) PerFileNDJSON(stem string) string {
	return filepath.Join(l.FilesDir(), stem+".ndjson")
}

// MergedTSV returns the merged frequency-table path.
func (l Layout) MergedTSV() string {
	return filepath.Join(l.OutputDir, l.Dataset+".tsv")
}

// MergedNDJSON returns the merged record-catalog path.
func (l Layout) MergedNDJSON() string {
	return filepath.Join(l.OutputDir, l.Dataset+".ndjson")
}

// DescriptorPath returns the endpoint descriptor path.
func (l Layout) DescriptorPath() string {
	return filepath.Join(l.OutputDir, l.Dataset+".descriptor.json")
}

// WritePerFile writes both per-file artifacts for one source.
func (l Layout) WritePerFile(stem string, c catalog.Catalog) error {
	if err := writeAtomic(l.PerFileTSV(stem), func(w io.Writer) error {
		return catalog.WriteTSV(w, c)
	}); err != nil {
		return err
	}
	return writeAtomic(l.PerFileNDJSON(stem), func(w io.Writer) error {
		return catalog.WriteNDJSON(w, c)
	})
}

// LoadPerFileCatalogs reads every per-file frequency table currently
// present on disk, regardless of which run produced it. Returns the
// catalogs and the stems they were loaded from, sorted.
func (l Layout) LoadPerFileCatalogs() ([]catalog.Catalog, []string, error) {
	entries, err := os.ReadDir(l.FilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read artifact directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".tsv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	catalogs := make([]catalog.Catalog, 0, len(names))
	stems := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(l.FilesDir(), name)
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open artifact %s: %w", path, err)
		}
		c, err := catalog.ReadTSV(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read artifact %s: %w", path, err)
		}
		catalogs = append(catalogs, c)
		stems = append(stems, strings.TrimSuffix(name, ".tsv"))
	}
	return catalogs, stems, nil
}

// WriteMerged writes the dataset-scoped artifacts: merged TSV, merged
// ND-JSON, and the endpoint descriptor. Returns the written paths.
func (l Layout) WriteMerged(merged catalog.Catalog, url string, builtAt time.Time) ([]string, error) {
	if err := writeAtomic(l.MergedTSV(), func(w io.Writer) error {
		return catalog.WriteTSV(w, merged)
	}); err != nil {
		return nil, err
	}
	if err := writeAtomic(l.MergedNDJSON(), func(w io.Writer) error {
		return catalog.WriteNDJSON(w, merged)
	}); err != nil {
		return nil, err
	}
	desc := catalog.NewDescriptor(l.Dataset, url, builtAt, merged)
	if err := writeAtomic(l.DescriptorPath(), func(w io.Writer) error {
		return catalog.WriteDescriptor(w, desc)
	}); err != nil {
		return nil, err
	}
	return []string{l.MergedTSV(), l.MergedNDJSON(), l.DescriptorPath()}, nil
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place, so a failure never leaves a truncated
// artifact at the final path.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish artifact %s: %w", path, err)
	}
	return nil
}
