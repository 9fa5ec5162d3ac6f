package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Recipe is the canonical form of a recipe extracted from a page. Its JSON
// field names follow schema.org. The three list fields are never null in
// JSON: they are written and read as empty arrays when there is nothing
// to list.
type Recipe struct {
	DateCreated  string       `json:"dateCreated,omitempty"`
	Name         string       `json:"name,omitempty"`
	SourceURL    string       `json:"sourceUrl,omitempty"`
	Categories   []string     `json:"recipeCategory"`
	Ingredients  []Ingredient `json:"recipeIngredient"`
	Instructions []string     `json:"recipeInstructions"`
	Yield        string       `json:"recipeYield,omitempty"`
}

// Ingredient is one ingredient line split into its parts. Every field is
// trimmed; an empty field is absent.
type Ingredient struct {
	Name        string `json:"name,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Preparation string `json:"preparation,omitempty"`
}

// String joins the ingredient back into a single line such as
// "1 cup flour, sifted".
func (i Ingredient) String() string {
	var b strings.Builder
	for _, part := range []string{i.Quantity, i.Unit, i.Name} {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	if i.Preparation != "" {
		b.WriteString(", ")
		b.WriteString(i.Preparation)
	}
	return b.String()
}

// recipeJSON breaks the MarshalJSON recursion.
type recipeJSON Recipe

// MarshalJSON writes nil lists as empty arrays.
func (r Recipe) MarshalJSON() ([]byte, error) {
	r.normalize()
	return json.Marshal(recipeJSON(r))
}

// UnmarshalJSON reads missing or null lists as empty.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw recipeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Recipe(raw)
	r.normalize()
	return nil
}

func (r *Recipe) normalize() {
	if r.Categories == nil {
		r.Categories = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
}

// ErrInvalidRecipe is wrapped by Validate failures.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Validate checks the fields that have a fixed shape.
func (r Recipe) Validate() error {
	if r.SourceURL != "" {
		u, err := url.Parse(r.SourceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: sourceUrl %q is not an absolute URL", ErrInvalidRecipe, r.SourceURL)
		}
	}
	if r.Yield != "" && !yieldPattern.MatchString(r.Yield) {
		return fmt.Errorf("%w: recipeYield %q is not a number of servings", ErrInvalidRecipe, r.Yield)
	}
	return nil
}
