package scan

import (
	"path/filepath"
	"strings"
)

// serializationExts are the recognized RDF serialization extensions,
// stripped by Stem after any compression suffix.
var serializationExts = []string{".nt", ".rdf", ".ttl", ".n3"}

// Stem returns the artifact base name for an input file: the file name
// with the compression suffix stripped first, then one serialization
// extension. Unrecognized extensions are kept, so distinct inputs map
// to distinct artifact names.
//
//	dump.nt.gz  -> dump
//	taxonomy.rdf -> taxonomy
//	notes.txt   -> notes.txt
func Stem(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".gz") {
		name = name[:len(name)-len(".gz")]
		lower = lower[:len(lower)-len(".gz")]
	}
	for _, ext := range serializationExts {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
