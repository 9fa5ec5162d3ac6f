package recipe

import (
	"regexp"

	"github.com/c360studio/semrecipe/rdf"
)

// SchemaOrg is the namespace recipes are read from. Pages that use the
// http form must be rewritten before their quads reach the store.
const SchemaOrg = "https://schema.org/"

var schema = rdf.Prefix(SchemaOrg)

// yieldPattern accepts a plain number of servings. "4-6 servings" and
// "1 loaf" are not servings counts and are ignored.
var yieldPattern = regexp.MustCompile(`^` + spaceClass + `*\d+` + spaceClass + `*$`)

// Parse returns one Recipe for every schema.org Recipe in store, in the
// order their type assertions were added. finalURL is recorded as the
// source of each recipe; order ranks multi-valued ingredients and
// instructions by where they appeared in the page.
//
// Malformed ingredients and steps are left out rather than reported. A
// store with no recipes gives an empty, non-nil slice.
func Parse(store *rdf.Store, finalURL string, order rdf.DocumentOrder) []Recipe {
	subjects := store.AllOfType(schema("Recipe"))
	recipes := make([]Recipe, 0, len(subjects))
	for _, r := range subjects {
		recipes = append(recipes, parseRecipe(r, finalURL, order))
	}
	return recipes
}

func parseRecipe(r rdf.Subject, finalURL string, order rdf.DocumentOrder) Recipe {
	out := Recipe{
		SourceURL:    finalURL,
		Categories:   []string{},
		Ingredients:  []Ingredient{},
		Instructions: OrderSteps(r.GetOrdered(schema("recipeInstructions"), order)),
	}

	out.Name, _ = rdf.FirstValue(r.Get(schema("name")))

	for _, y := range rdf.Values(r.Get(schema("recipeYield"))) {
		if yieldPattern.MatchString(y) {
			out.Yield = y
			break
		}
	}

	for _, ing := range r.GetOrdered(schema("recipeIngredient"), order) {
		if parsed, ok := ParseIngredient(ing); ok {
			out.Ingredients = append(out.Ingredients, parsed)
		}
	}

	for _, c := range rdf.Values(r.Get(schema("recipeCategory"))) {
		out.Categories = append(out.Categories, trimSpace(c))
	}
	return out
}
