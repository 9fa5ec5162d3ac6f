package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semrecipe/rdf"
)

var s = rdf.Prefix("https://schema.org/")

func testStore(t *testing.T) *rdf.Store {
	t.Helper()
	recipe := rdf.BlankNode("b0")
	step := rdf.BlankNode("b1")
	graph := rdf.NamedNode("https://example.com/g")

	c := rdf.NewCollector()
	for _, q := range []rdf.Quad{
		{Subject: recipe, Predicate: rdf.NamedNode(rdf.RDFType), Object: s("Recipe"), Graph: rdf.DefaultGraph},
		{Subject: recipe, Predicate: s("name"), Object: rdf.Literal(`Mom's "best" pancakes`), Graph: rdf.DefaultGraph},
		{Subject: recipe, Predicate: s("recipeIngredient"), Object: rdf.Literal("1 cup flour"), Graph: rdf.DefaultGraph},
		{Subject: recipe, Predicate: s("recipeIngredient"), Object: rdf.Literal("2 eggs"), Graph: rdf.DefaultGraph},
		{Subject: recipe, Predicate: s("recipeInstructions"), Object: step, Graph: rdf.DefaultGraph},
		{Subject: step, Predicate: s("text"), Object: rdf.LangLiteral("Mix.\nFry.", "en"), Graph: rdf.DefaultGraph},
		{Subject: step, Predicate: s("position"), Object: rdf.TypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"), Graph: rdf.DefaultGraph},
		{Subject: recipe, Predicate: s("name"), Object: rdf.Literal("Pancakes"), Graph: graph},
	} {
		require.NoError(t, c.Add(q))
	}
	store, _ := c.Close()
	return store
}

func TestWriteStoreNTriples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStore(&buf, testStore(t), FormatNTriples))

	want := `_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://schema.org/Recipe> .
_:b0 <https://schema.org/name> "Mom's \"best\" pancakes" .
_:b0 <https://schema.org/recipeIngredient> "1 cup flour" .
_:b0 <https://schema.org/recipeIngredient> "2 eggs" .
_:b0 <https://schema.org/recipeInstructions> _:b1 .
_:b1 <https://schema.org/text> "Mix.\nFry."@en .
_:b1 <https://schema.org/position> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
_:b0 <https://schema.org/name> "Pancakes" .
`
	assert.Equal(t, want, buf.String())
}

func TestWriteStoreNQuads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStore(&buf, testStore(t), FormatNQuads))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, `_:b0 <https://schema.org/name> "Pancakes" <https://example.com/g> .`, lines[7])
}

func TestWriteStoreTurtle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStore(&buf, testStore(t), FormatTurtle))

	want := `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix s: <https://schema.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

_:b0 a s:Recipe ;
    s:name "Mom's \"best\" pancakes" ;
    s:recipeIngredient "1 cup flour", "2 eggs" ;
    s:recipeInstructions _:b1 .

_:b1 s:text "Mix.\nFry."@en ;
    s:position "1"^^xsd:integer .

<https://example.com/g> {
    _:b0 s:name "Pancakes" .

}

`
	assert.Equal(t, want, buf.String())
}

func TestWriteStoreJSONLD(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStore(&buf, testStore(t), FormatJSONLD))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "@context")
	assert.Contains(t, buf.String(), `"Recipe"`)
	assert.Contains(t, buf.String(), `"1 cup flour"`)
	assert.Contains(t, buf.String(), `Mom's \"best\" pancakes`)
}

func TestWriteStoreUnsupported(t *testing.T) {
	err := WriteStore(&bytes.Buffer{}, rdf.NewStore(), Format("rdfxml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"turtle", FormatTurtle, true},
		{" NTriples ", FormatNTriples, true},
		{"text/turtle; charset=utf-8", FormatTurtle, true},
		{"application/ld+json", FormatJSONLD, true},
		{"application/n-quads", FormatNQuads, true},
		{"application/json", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFormat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTurtleIRICompaction(t *testing.T) {
	w := NewTurtleWriter()
	w.SetPrefix("ex", "https://example.com/")

	assert.Equal(t, "s:Recipe", w.iri("https://schema.org/Recipe"))
	assert.Equal(t, "ex:pancakes", w.iri("https://example.com/pancakes"))
	assert.Equal(t, "<https://example.com/r/1>", w.iri("https://example.com/r/1"))
	assert.Equal(t, "<https://other.org/x%20y>", w.iri("https://other.org/x%20y"))
	assert.Equal(t, `<https://other.org/a\u0020b>`, w.iri("https://other.org/a b"))
}

func TestEscapeString(t *testing.T) {
	assert.Equal(t, `tab\there \\ \u0001 ok`, escapeString("tab\there \\ \x01 ok"))
	assert.Equal(t, "crème brûlée", escapeString("crème brûlée"))
}
