// Package wellknown maps common RDF vocabulary namespaces to their
// conventional prefixes for display purposes.
package wellknown

import "strings"

// prefixes maps namespace IRIs to conventional prefixes. The table is
// display-only; artifacts always carry full IRIs.
var prefixes = map[string]string{
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":             "rdf",
	"http://www.w3.org/2000/01/rdf-schema#":                   "rdfs",
	"http://www.w3.org/2002/07/owl#":                          "owl",
	"http://www.w3.org/2001/XMLSchema#":                       "xsd",
	"http://purl.org/dc/terms/":                               "dcterms",
	"http://purl.org/dc/elements/1.1/":                        "dc",
	"http://www.w3.org/2004/02/skos/core#":                    "skos",
	"http://www.w3.org/ns/prov#":                              "prov",
	"http://xmlns.com/foaf/0.1/":                              "foaf",
	"http://rdfs.org/ns/void#":                                "void",
	"http://www.w3.org/ns/dcat#":                              "dcat",
	"http://schema.org/":                                      "schema",
	"http://www.w3.org/2003/01/geo/wgs84_pos#":                "geo",
	"http://purl.obolibrary.org/obo/":                         "obo",
	"http://www.w3.org/ns/sparql-service-description#":        "sd",
	"http://www.ontologyrepository.com/CommonCoreOntologies/": "cco",
}

// Prefix returns the conventional prefix for a namespace IRI, or ""
// when the namespace is not in the table.
func Prefix(namespace string) string {
	return prefixes[namespace]
}

// Curie renders an IRI in compact prefix:local form when its namespace
// is well known; otherwise it returns the IRI unchanged.
func Curie(iri string) string {
	i := strings.LastIndexAny(iri, "/#")
	if i < 0 {
		return iri
	}
	ns, local := iri[:i+1], iri[i+1:]
	prefix, ok := prefixes[ns]
	if !ok || local == "" {
		return iri
	}
	return prefix + ":" + local
}
