package recipe

import (
	"strings"

	"github.com/c360studio/semrecipe/units"
)

// ScaleIngredient returns the display text of the ingredient's amount
// multiplied by multiple, such as "0.25 cups" or "3 eggs".
//
// The quantity must parse and the unit must be in the registry for the
// amount to be converted and rendered in length. An unknown unit still
// has its number multiplied. A quantity that does not parse, such as "3-4"
// or "a pinch", is returned as written.
func ScaleIngredient(ing Ingredient, multiple float64, length units.Length) string {
	n, ok := units.ParseQuantity(ing.Quantity)
	if !ok {
		return join(ing.Quantity, ing.Unit)
	}
	if u, ok := units.GetUnit(ing.Unit); ok {
		return units.Render(units.Scale(units.Amount{Num: n, Unit: u}, multiple), length)
	}
	return join(units.FormatQuantity(n*multiple), ing.Unit)
}

// Scaled returns a copy of the recipe's ingredients with Quantity and
// Unit replaced by their scaled rendering. Ingredients without a
// recognized amount are copied unchanged.
func Scaled(ingredients []Ingredient, multiple float64, length units.Length) []Ingredient {
	out := make([]Ingredient, len(ingredients))
	for i, ing := range ingredients {
		out[i] = ing
		n, ok := units.ParseQuantity(ing.Quantity)
		if !ok {
			continue
		}
		if u, ok := units.GetUnit(ing.Unit); ok {
			out[i].Quantity = units.Render(units.Scale(units.Amount{Num: n, Unit: u}, multiple), length)
			out[i].Unit = ""
			continue
		}
		out[i].Quantity = units.FormatQuantity(n * multiple)
	}
	return out
}

func join(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
