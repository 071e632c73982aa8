// Package scan extracts predicate occurrences from RDF dump files.
//
// Two extraction strategies exist: a raw line scanner for N-Triples
// (plain or gzip-compressed) and a conformant triple decoder for the
// graph syntaxes (Turtle, RDF/XML, N3). The line scanner emits the
// literal bracketed token from the predicate position without IRI
// normalization, while the decoder path yields normalized absolute
// IRIs; the divergence is intentional observed behavior and is not
// unified here.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// EmitFunc receives one raw predicate token per matching triple,
// including the enclosing angle brackets.
type EmitFunc func(token string)

// Extractor streams predicate occurrences from one RDF file.
type Extractor interface {
	// Extract scans the file from the start and calls emit once per
	// predicate occurrence. The stream is finite and not restartable
	// mid-scan; each call rescans the whole file.
	Extract(ctx context.Context, path string, emit EmitFunc) error

	// Extensions returns the lower-case file extensions this
	// extractor handles, longest first where they overlap.
	Extensions() []string
}

// Registry selects an extractor for a file by extension. Detection is
// by extension only, never content sniffing.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Extractor
}

// DefaultRegistry is the global extractor registry with the default
// extractors registered.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the default extractors.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(NewLineExtractor())
	r.Register(NewGraphExtractor())
	return r
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor for the file's extension, or nil when
// the extension is unsupported.
func (r *Registry) ForFile(path string) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[extensionOf(path)]
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the appropriate extractor for the file.
func (r *Registry) Extract(ctx context.Context, path string, emit EmitFunc) error {
	e := r.ForFile(path)
	if e == nil {
		return &ParseError{File: path, Err: fmt.Errorf("unsupported file extension %q", filepath.Ext(path))}
	}
	return e.Extract(ctx, path, emit)
}

// extensionOf returns the recognized extension of the path, treating
// the compound ".nt.gz" as a single extension.
func extensionOf(path string) string {
	lower := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(lower, ".nt.gz") {
		return ".nt.gz"
	}
	return filepath.Ext(lower)
}
