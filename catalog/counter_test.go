package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Add("<http://ex/p1>")
	c.Add("<http://ex/p2>")
	c.Add("<http://ex/p1>")
	c.Add("<http://ex/p1>")

	assert.Equal(t, 2, c.Distinct())
	assert.Equal(t, uint64(4), c.Total())

	got := c.Catalog()
	want := Catalog{
		{Token: "<http://ex/p1>", Count: 3},
		{Token: "<http://ex/p2>", Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestCounterOrderIndependent(t *testing.T) {
	a := NewCounter()
	b := NewCounter()
	tokens := []string{"<p1>", "<p2>", "<p1>", "<p3>", "<p2>", "<p1>"}
	for i, tok := range tokens {
		a.Add(tok)
		b.Add(tokens[len(tokens)-1-i])
	}
	assert.Equal(t, a.Catalog(), b.Catalog())
}

func TestCatalogTieBreak(t *testing.T) {
	c := NewCounter()
	c.Add("<http://ex/b>")
	c.Add("<http://ex/a>")

	got := c.Catalog()
	// Equal counts sort lexicographically by token.
	assert.Equal(t, "<http://ex/a>", got[0].Token)
	assert.Equal(t, "<http://ex/b>", got[1].Token)
}

func TestCatalogRecords(t *testing.T) {
	c := Catalog{
		{Token: "<http://ex/foo#bar>", Count: 2},
		{Token: "<http://ex/baz/>", Count: 1},
	}
	records := c.Records()
	assert.Equal(t, "http://ex/foo#bar", records[0].IRI)
	assert.Equal(t, "bar", records[0].LocalName)
	assert.Equal(t, "", records[1].LocalName)
	assert.Equal(t, uint64(3), c.Total())
}
