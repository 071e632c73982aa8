package catalog

// Merge combines per-file catalogs into one dataset-wide catalog,
// summing counts for identical tokens. The result is independent of
// the order of the inputs; only the deterministic tie-break affects
// entry ordering.
func Merge(catalogs ...Catalog) Catalog {
	sums := make(map[string]uint64)
	for _, c := range catalogs {
		for _, e := range c {
			sums[e.Token] += e.Count
		}
	}

	merged := make(Catalog, 0, len(sums))
	for token, count := range sums {
		merged = append(merged, Entry{Token: token, Count: count})
	}
	sortEntries(merged)
	return merged
}
