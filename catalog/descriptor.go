package catalog

import (
	"encoding/json"
	"io"
	"time"
)

// DescriptorVersion tags the endpoint descriptor schema.
const DescriptorVersion = "v1"

// Endpoint describes one cataloged dataset inside a descriptor.
type Endpoint struct {
	// ID identifies the dataset.
	ID string `json:"id"`

	// URL is the dataset's SPARQL endpoint, when known.
	URL *string `json:"url"`

	// BuiltAt is the UTC ISO-8601 build timestamp.
	BuiltAt string `json:"built_at"`

	// TriplesSampled is set only for sampled harvests. A full file
	// scan leaves it null.
	TriplesSampled *uint64 `json:"triples_sampled"`

	// Predicates is the complete, deduplicated, count-sorted catalog.
	Predicates []Record `json:"predicates"`
}

// Descriptor wraps built endpoint catalogs into the document consumed
// by the query-translation side as a per-dataset predicate index.
type Descriptor struct {
	Version   string     `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
}

// NewDescriptor wraps one merged catalog into a single-endpoint
// descriptor. url may be empty, in which case the field stays null.
func NewDescriptor(datasetID, url string, builtAt time.Time, merged Catalog) Descriptor {
	ep := Endpoint{
		ID:         datasetID,
		BuiltAt:    builtAt.UTC().Format(time.RFC3339),
		Predicates: merged.Records(),
	}
	if url != "" {
		ep.URL = &url
	}
	return Descriptor{
		Version:   DescriptorVersion,
		Endpoints: []Endpoint{ep},
	}
}

// WriteDescriptor serializes the descriptor as indented JSON.
func WriteDescriptor(w io.Writer, d Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
