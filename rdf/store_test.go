package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = Prefix("https://schema.org/")

func collect(t *testing.T, quads ...Quad) (*Store, DocumentOrder) {
	t.Helper()
	c := NewCollector()
	for _, q := range quads {
		require.NoError(t, c.Add(q))
	}
	return c.Close()
}

func triple(s, p, o Term) Quad {
	return Quad{Subject: s, Predicate: p, Object: o, Graph: DefaultGraph}
}

func TestSubjectGet(t *testing.T) {
	r := BlankNode("r")
	store, _ := collect(t,
		triple(r, NamedNode(RDFType), schema("Recipe")),
		triple(r, schema("recipeCategory"), Literal("Dessert")),
		triple(r, schema("recipeCategory"), Literal("Baking")),
		triple(r, schema("name"), Literal("Cake")),
	)

	recipes := store.AllOfType(schema("Recipe"))
	require.Len(t, recipes, 1)
	assert.Equal(t, r, recipes[0].Node())

	t.Run("insertion order", func(t *testing.T) {
		got := Values(recipes[0].Get(schema("recipeCategory")))
		assert.Equal(t, []string{"Dessert", "Baking"}, got)
	})

	t.Run("unknown predicate is empty", func(t *testing.T) {
		got := recipes[0].Get(schema("recipeYield"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("literal has no objects", func(t *testing.T) {
		name := recipes[0].Get(schema("name"))[0]
		assert.Empty(t, name.Get(schema("name")))
	})

	t.Run("zero subject", func(t *testing.T) {
		var zero Subject
		assert.Empty(t, zero.Get(schema("name")))
		_, ok := zero.Value()
		assert.False(t, ok)
	})
}

func TestStoreDeduplicates(t *testing.T) {
	r := BlankNode("r")
	store, _ := collect(t,
		triple(r, schema("name"), Literal("Cake")),
		triple(r, schema("name"), Literal("Cake")),
		triple(r, schema("name"), LangLiteral("Cake", "EN")),
	)
	assert.Equal(t, 2, store.Len())

	sub, ok := store.Subject(r, DefaultGraph)
	require.True(t, ok)
	assert.Equal(t, []string{"Cake", "Cake"}, Values(sub.Get(schema("name"))))
}

func TestGraphScoping(t *testing.T) {
	g1, g2 := BlankNode("g1"), BlankNode("g2")
	r := NamedNode("https://example.com/cake")
	store, _ := collect(t,
		Quad{Subject: r, Predicate: NamedNode(RDFType), Object: schema("Recipe"), Graph: g1},
		Quad{Subject: r, Predicate: schema("name"), Object: Literal("One"), Graph: g1},
		Quad{Subject: r, Predicate: NamedNode(RDFType), Object: schema("Recipe"), Graph: g2},
		Quad{Subject: r, Predicate: schema("name"), Object: Literal("Two"), Graph: g2},
	)

	recipes := store.AllOfType(schema("Recipe"))
	require.Len(t, recipes, 2)
	assert.Equal(t, g1, recipes[0].Graph())
	assert.Equal(t, []string{"One"}, Values(recipes[0].Get(schema("name"))))
	assert.Equal(t, []string{"Two"}, Values(recipes[1].Get(schema("name"))))
}

func TestGetOrdered(t *testing.T) {
	r := BlankNode("r")
	s1, s2, s3 := BlankNode("s1"), BlankNode("s2"), BlankNode("s3")

	// Objects reach the recipe in reverse, but s1 was seen first as a subject.
	store, order := collect(t,
		triple(s1, schema("text"), Literal("first")),
		triple(s2, schema("text"), Literal("second")),
		triple(r, schema("recipeInstructions"), s3),
		triple(r, schema("recipeInstructions"), s2),
		triple(r, schema("recipeInstructions"), s1),
	)
	sub, ok := store.Subject(r, DefaultGraph)
	require.True(t, ok)

	unordered := sub.Get(schema("recipeInstructions"))
	assert.Equal(t, []Term{s3, s2, s1}, nodes(unordered))

	ordered := sub.GetOrdered(schema("recipeInstructions"), order)
	assert.Equal(t, []Term{s1, s2, s3}, nodes(ordered))

	t.Run("missing positions sort last", func(t *testing.T) {
		partial := DocumentOrder{s2.ID(): 0}
		got := sub.GetOrdered(schema("recipeInstructions"), partial)
		assert.Equal(t, []Term{s2, s3, s1}, nodes(got))
	})

	t.Run("nil order keeps insertion order", func(t *testing.T) {
		got := sub.GetOrdered(schema("recipeInstructions"), nil)
		assert.Equal(t, []Term{s3, s2, s1}, nodes(got))
	})
}

func TestStoreSubjectUnknown(t *testing.T) {
	store, _ := collect(t, triple(BlankNode("a"), schema("name"), Literal("x")))
	_, ok := store.Subject(BlankNode("missing"), DefaultGraph)
	assert.False(t, ok)
	assert.Empty(t, store.AllOfType(schema("Recipe")))
}

func TestQuadsRoundTrip(t *testing.T) {
	in := []Quad{
		triple(BlankNode("a"), schema("name"), Literal("x")),
		triple(BlankNode("a"), schema("url"), NamedNode("https://example.com")),
	}
	store, _ := collect(t, in...)
	assert.Equal(t, in, store.Quads())
}

func nodes(subjects []Subject) []Term {
	out := make([]Term, len(subjects))
	for i, s := range subjects {
		out[i] = s.Node()
	}
	return out
}
