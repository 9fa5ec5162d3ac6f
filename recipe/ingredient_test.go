package recipe

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/c360studio/semrecipe/rdf"
)

// graph builds a store from triples in the default graph.
type graph struct {
	t *testing.T
	c *rdf.Collector
}

func newGraph(t *testing.T) *graph {
	t.Helper()
	return &graph{t: t, c: rdf.NewCollector()}
}

func (g *graph) add(s rdf.Term, p string, o rdf.Term) *graph {
	g.t.Helper()
	q := rdf.Quad{Subject: s, Predicate: schema(p), Object: o, Graph: rdf.DefaultGraph}
	if p == "a" {
		q.Predicate = rdf.NamedNode(rdf.RDFType)
	}
	if err := g.c.Add(q); err != nil {
		g.t.Fatalf("add quad: %v", err)
	}
	return g
}

func (g *graph) subject(node rdf.Term) rdf.Subject {
	g.t.Helper()
	store, _ := g.c.Close()
	s, ok := store.Subject(node, rdf.DefaultGraph)
	if !ok {
		g.t.Fatalf("subject %s not in store", node)
	}
	return s
}

func TestParseIngredientText(t *testing.T) {
	tests := []struct {
		in   string
		want Ingredient
		ok   bool
	}{
		{"1 cup flour, sifted", Ingredient{Quantity: "1", Unit: "cup", Name: "flour", Preparation: "sifted"}, true},
		{"1cup flour, sifted", Ingredient{Quantity: "1", Unit: "cup", Name: "flour", Preparation: "sifted"}, true},
		{"1 1/2 cups all-purpose flour", Ingredient{Quantity: "1 1/2", Unit: "cups", Name: "all-purpose flour"}, true},
		{"½ tsp salt", Ingredient{Quantity: "½", Unit: "tsp", Name: "salt"}, true},
		{"2 eggs", Ingredient{Quantity: "2", Name: "eggs"}, true},
		{"salt", Ingredient{Name: "salt"}, true},
		{"kosher salt, to taste", Ingredient{Unit: "kosher", Name: "salt", Preparation: "to taste"}, true},
		{"  3  Tbsp   butter ,  melted, cooled ", Ingredient{Quantity: "3", Unit: "Tbsp", Name: "butter", Preparation: "melted, cooled"}, true},
		{"flour,", Ingredient{Name: "flour"}, true},
		{"", Ingredient{}, false},
		{"   ", Ingredient{}, false},
		{"flour, a\nb", Ingredient{}, false},
		{"1 cup flour, sifted\r", Ingredient{}, false},
		{"1 cup flour, sifted\u2028", Ingredient{}, false},
		{"2\u00a0eggs\u00a0", Ingredient{Quantity: "2", Name: "eggs"}, true},
		// Punctuation belongs to the quantity run, commas included.
		{", sifted", Ingredient{Quantity: ",", Name: "sifted"}, true},
		{"1 , sifted", Ingredient{Quantity: "1 ,", Name: "sifted"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIngredientText(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseIngredientText(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseIngredientText(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestIngredientRoundTrip(t *testing.T) {
	parts := []Ingredient{
		{Quantity: "2", Unit: "cups", Name: "milk", Preparation: "warmed"},
		{Quantity: "1/4", Unit: "tsp", Name: "ground nutmeg", Preparation: "freshly grated"},
		{Quantity: "3", Unit: "large", Name: "eggs", Preparation: "beaten"},
	}
	for _, want := range parts {
		got, ok := ParseIngredientText(want.String())
		if !ok {
			t.Fatalf("%q did not parse", want.String())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %q (-want +got):\n%s", want.String(), diff)
		}
	}
}

func TestParseIngredientNode(t *testing.T) {
	ing, qty := rdf.BlankNode("ing"), rdf.BlankNode("qty")

	t.Run("name and quantity", func(t *testing.T) {
		s := newGraph(t).
			add(ing, "name", rdf.Literal(" butter , softened ")).
			add(ing, "requiredQuantity", qty).
			add(qty, "value", rdf.TypedLiteral("2", "http://www.w3.org/2001/XMLSchema#integer")).
			add(qty, "unitText", rdf.Literal("tbsp ")).
			subject(ing)

		got, ok := ParseIngredient(s)
		if !ok {
			t.Fatal("expected ingredient")
		}
		want := Ingredient{Name: "butter", Preparation: "softened", Quantity: "2", Unit: "tbsp"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("name only", func(t *testing.T) {
		s := newGraph(t).add(ing, "name", rdf.Literal("eggs")).subject(ing)
		got, ok := ParseIngredient(s)
		if !ok || got != (Ingredient{Name: "eggs"}) {
			t.Errorf("expected {Name: eggs}, got %+v (ok=%v)", got, ok)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		s := newGraph(t).add(ing, "requiredQuantity", qty).add(qty, "value", rdf.Literal("1")).subject(ing)
		if _, ok := ParseIngredient(s); ok {
			t.Error("expected no ingredient without a name")
		}
	})

	t.Run("blank name", func(t *testing.T) {
		s := newGraph(t).add(ing, "name", rdf.Literal("   ")).subject(ing)
		got, ok := ParseIngredient(s)
		if !ok || got != (Ingredient{}) {
			t.Errorf("expected an ingredient with an empty name, got %+v (ok=%v)", got, ok)
		}
	})

	t.Run("non-literal name", func(t *testing.T) {
		s := newGraph(t).add(ing, "name", rdf.NamedNode("https://example.com/flour")).subject(ing)
		if _, ok := ParseIngredient(s); ok {
			t.Error("expected no ingredient for IRI name")
		}
	})
}

func TestParseIngredientLiteral(t *testing.T) {
	r := rdf.BlankNode("r")
	s := newGraph(t).add(r, "recipeIngredient", rdf.Literal("1 cup flour, sifted")).subject(r)
	objects := s.Get(schema("recipeIngredient"))
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	got, ok := ParseIngredient(objects[0])
	if !ok {
		t.Fatal("expected ingredient")
	}
	if got.String() != "1 cup flour, sifted" {
		t.Errorf("unexpected ingredient %+v", got)
	}
}
