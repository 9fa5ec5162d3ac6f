// Package units holds the cooking unit registry and the arithmetic for
// rescaling and rendering ingredient amounts.
//
// The registry is fixed: grams, liters, ounces and teaspoons are base
// units, and every other unit is defined as an amount of one of them.
// Each unit carries a natural range; Scale keeps the original unit while
// the scaled amount stays inside it and otherwise moves to a preferred
// unit of the same system and dimension:
//
//	a := units.Scale(units.Amount{Num: 3, Unit: units.Teaspoon}, 4)
//	units.Render(a, units.Long) // "0.25 cups"
//
// Lookups never fail loudly. GetUnit reports false for unknown names, and
// callers keep the original text.
package units
