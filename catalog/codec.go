package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTSV writes the catalog as a tab-separated frequency table, one
// "count\tIRI" line per entry, counts descending. Tokens are stored
// without angle brackets.
func WriteTSV(w io.Writer, c Catalog) error {
	bw := bufio.NewWriter(w)
	for _, e := range c {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", e.Count, TrimToken(e.Token)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadTSV parses a frequency table previously written by WriteTSV.
// Entries keep the stored IRI form as their token.
func ReadTSV(r io.Reader) (Catalog, error) {
	var entries Catalog
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		count, iri, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		n, err := strconv.ParseUint(count, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count %q: %w", line, count, err)
		}
		entries = append(entries, Entry{Token: iri, Count: n})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// WriteNDJSON writes the catalog as line-delimited JSON, one Record
// object per line.
func WriteNDJSON(w io.Writer, c Catalog) error {
	bw := bufio.NewWriter(w)
	for _, r := range c.Records() {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
