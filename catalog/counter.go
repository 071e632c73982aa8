package catalog

import "sort"

// Entry is one raw predicate token with its occurrence count.
type Entry struct {
	Token string
	Count uint64
}

// Catalog is a frequency-ranked sequence of entries: count descending,
// token ascending on ties so output is reproducible.
type Catalog []Entry

// Records projects the catalog into output records, stripping token
// delimiters and deriving local names.
func (c Catalog) Records() []Record {
	records := make([]Record, len(c))
	for i, e := range c {
		records[i] = NewRecord(e.Token, e.Count)
	}
	return records
}

// Total returns the sum of all counts.
func (c Catalog) Total() uint64 {
	var total uint64
	for _, e := range c {
		total += e.Count
	}
	return total
}

// Counter accumulates predicate occurrence counts for one source.
// Memory is proportional to the number of distinct predicates, not the
// number of occurrences. A Counter is owned by a single extraction and
// must not be shared across files.
type Counter struct {
	counts map[string]uint64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]uint64)}
}

// Add records one occurrence of the raw predicate token.
func (c *Counter) Add(token string) {
	c.counts[token]++
}

// Distinct returns the number of distinct predicate tokens seen.
func (c *Counter) Distinct() int {
	return len(c.counts)
}

// Total returns the number of occurrences recorded.
func (c *Counter) Total() uint64 {
	var total uint64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Catalog returns the counted entries sorted for output. The counter
// remains usable afterwards.
func (c *Counter) Catalog() Catalog {
	entries := make(Catalog, 0, len(c.counts))
	for token, count := range c.counts {
		entries = append(entries, Entry{Token: token, Count: count})
	}
	sortEntries(entries)
	return entries
}

// sortEntries orders by count descending, then token ascending.
func sortEntries(entries Catalog) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
}
