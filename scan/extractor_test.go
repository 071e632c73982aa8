package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryForFile(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		path string
		want any
	}{
		{"dump.nt", &LineExtractor{}},
		{"dump.nt.gz", &LineExtractor{}},
		{"DUMP.NT.GZ", &LineExtractor{}},
		{"data.ttl", &GraphExtractor{}},
		{"data.rdf", &GraphExtractor{}},
		{"data.n3", &GraphExtractor{}},
		{"notes.txt", nil},
		{"archive.gz", nil},
		{"noextension", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := r.ForFile(tt.path)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.IsType(t, tt.want, got)
			}
		})
	}
}

func TestRegistryExtensions(t *testing.T) {
	exts := NewRegistry().Extensions()
	assert.Equal(t, []string{".n3", ".nt", ".nt.gz", ".rdf", ".ttl"}, exts)
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"dump.nt", "dump"},
		{"dump.nt.gz", "dump"},
		{"path/to/taxonomy.rdf", "taxonomy"},
		{"data.ttl", "data"},
		{"data.n3", "data"},
		{"DUMP.NT.GZ", "DUMP"},
		{"notes.txt", "notes.txt"},
		{"archive.tar.gz", "archive.tar"},
		{"plain", "plain"},
		{"tricky.nt.nt", "tricky.nt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.path))
		})
	}
}
