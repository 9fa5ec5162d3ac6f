package recipe

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/c360studio/semrecipe/rdf"
)

const finalURL = "https://example.com/recipes/pancakes"

// pancakes builds a recipe whose ingredients and steps are added to the
// store in a different order than they appear in the document.
func pancakes(t *testing.T) (*rdf.Store, rdf.DocumentOrder) {
	t.Helper()
	r := rdf.BlankNode("r")
	step1, step2 := rdf.BlankNode("step1"), rdf.BlankNode("step2")
	flour := rdf.Literal("1 1/2 cups flour, sifted")
	milk := rdf.Literal("1 1/4 cups milk")
	egg := rdf.Literal("1 egg")

	c := rdf.NewCollector()
	add := func(s rdf.Term, p rdf.Term, o rdf.Term) {
		t.Helper()
		if err := c.Add(rdf.Quad{Subject: s, Predicate: p, Object: o, Graph: rdf.DefaultGraph}); err != nil {
			t.Fatal(err)
		}
	}

	// Document order: flour, milk, egg, then step1, step2.
	add(r, rdf.NamedNode(rdf.RDFType), schema("Recipe"))
	add(r, schema("name"), rdf.NamedNode("https://example.com/not-a-name"))
	add(r, schema("name"), rdf.Literal("Pancakes"))
	add(r, schema("name"), rdf.Literal("Flapjacks"))
	add(r, schema("recipeYield"), rdf.Literal("4-6 servings"))
	add(r, schema("recipeYield"), rdf.Literal(" 8 "))
	add(r, schema("recipeYield"), rdf.Literal("12"))
	add(r, schema("recipeCategory"), rdf.Literal(" Breakfast "))
	add(r, schema("recipeCategory"), rdf.Literal("Quick"))
	add(r, schema("recipeCategory"), rdf.Literal("  "))
	add(r, schema("description"), flour)
	add(r, schema("description"), milk)
	add(r, schema("description"), egg)
	add(r, schema("recipeIngredient"), egg)
	add(r, schema("recipeIngredient"), rdf.Literal("   "))
	add(r, schema("recipeIngredient"), milk)
	add(r, schema("recipeIngredient"), flour)
	add(step1, schema("text"), rdf.Literal("Whisk everything."))
	add(step2, schema("text"), rdf.Literal("Fry."))
	add(r, schema("recipeInstructions"), step2)
	add(r, schema("recipeInstructions"), step1)

	return c.Close()
}

func TestParse(t *testing.T) {
	store, order := pancakes(t)
	got := Parse(store, finalURL, order)

	want := []Recipe{{
		Name:       "Pancakes",
		SourceURL:  finalURL,
		Yield:      " 8 ",
		Categories: []string{"Breakfast", "Quick", ""},
		Ingredients: []Ingredient{
			{Quantity: "1 1/2", Unit: "cups", Name: "flour", Preparation: "sifted"},
			{Quantity: "1 1/4", Unit: "cups", Name: "milk"},
			{Quantity: "1", Name: "egg"},
		},
		Instructions: []string{"Whisk everything.", "Fry."},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestYieldPattern(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"4", true},
		{" 8 ", true},
		{"4\u00a0", true},
		{"\ufeff6", true},
		{"\t12\r\n", true},
		{"4-6 servings", false},
		{"1 loaf", false},
		{"", false},
		{"٤", false},
	}
	for _, tt := range tests {
		if got := yieldPattern.MatchString(tt.in); got != tt.want {
			t.Errorf("yieldPattern.MatchString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseNoRecipes(t *testing.T) {
	c := rdf.NewCollector()
	if err := c.Add(rdf.Quad{
		Subject:   rdf.BlankNode("p"),
		Predicate: rdf.NamedNode(rdf.RDFType),
		Object:    schema("Person"),
		Graph:     rdf.DefaultGraph,
	}); err != nil {
		t.Fatal(err)
	}
	store, order := c.Close()

	got := Parse(store, finalURL, order)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}

	empty, emptyOrder := rdf.NewCollector().Close()
	if got := Parse(empty, finalURL, emptyOrder); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice for empty store, got %#v", got)
	}
}

func TestParseMinimalRecipe(t *testing.T) {
	c := rdf.NewCollector()
	if err := c.Add(rdf.Quad{
		Subject:   rdf.NamedNode("https://example.com/#recipe"),
		Predicate: rdf.NamedNode(rdf.RDFType),
		Object:    schema("Recipe"),
		Graph:     rdf.DefaultGraph,
	}); err != nil {
		t.Fatal(err)
	}
	store, order := c.Close()

	got := Parse(store, "", order)
	want := []Recipe{{Categories: []string{}, Ingredients: []Ingredient{}, Instructions: []string{}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConcurrent(t *testing.T) {
	store, order := pancakes(t)
	want := Parse(store, finalURL, order)

	var wg sync.WaitGroup
	results := make([][]Recipe, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Parse(store, finalURL, order)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("goroutine %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
