// Package catalog models predicate-usage catalogs: deduplicated,
// frequency-ranked sets of RDF predicates observed in a corpus.
//
// Counting operates on raw bracketed tokens exactly as extracted from
// the source file; bracket stripping and local-name derivation happen
// only when entries are projected into Records for output.
package catalog

import "strings"

// Record is one catalog line as written to ND-JSON artifacts and the
// endpoint descriptor.
type Record struct {
	// IRI is the absolute predicate IRI without angle brackets.
	IRI string `json:"iri"`

	// UsageCount is the number of triples using this predicate.
	UsageCount uint64 `json:"usage_count"`

	// LocalName is the display label derived from the IRI.
	LocalName string `json:"local_name"`
}

// NewRecord builds a Record from a raw predicate token and its count.
// The token may or may not carry enclosing angle brackets.
func NewRecord(token string, count uint64) Record {
	iri := TrimToken(token)
	return Record{
		IRI:        iri,
		UsageCount: count,
		LocalName:  LocalName(iri),
	}
}

// TrimToken strips the enclosing angle-bracket delimiters from a raw
// predicate token. Tokens without brackets pass through unchanged.
func TrimToken(token string) string {
	return strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
}

// LocalName returns the substring after the last '/' or '#' in the
// IRI. An IRI ending in a separator yields the empty string; an IRI
// with no separator yields the whole IRI.
func LocalName(iri string) string {
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
