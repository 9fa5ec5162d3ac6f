package units

import "strings"

// Base units.
var (
	Gram = &Unit{
		name:      "g",
		system:    Metric,
		dimension: Mass,
		long:      measure("gram", "grams"),
		abbrev:    narrow("%sg"),
		synonyms:  []string{"g", "gram", "grams"},
		min:       1,
		hasMin:    true,
		max:       1000,
		hasMax:    true,
	}
	Liter = &Unit{
		name:      "L",
		system:    Metric,
		dimension: Volume,
		long:      measure("liter", "liters"),
		abbrev:    narrow("%sL"),
		synonyms:  []string{"L", "liter", "litre", "liters", "litres"},
		min:       1,
		hasMin:    true,
	}
	Ounce = &Unit{
		name:      "oz",
		system:    US,
		dimension: Mass,
		long:      measure("ounce", "ounces"),
		abbrev:    narrow("%soz"),
		synonyms:  []string{"oz", "ounce", "ounces"},
		max:       16,
		hasMax:    true,
	}
	Teaspoon = &Unit{
		name:      "tsp",
		system:    US,
		dimension: Volume,
		long:      plural("teaspoon", "teaspoons"),
		abbrev:    plain("%s tsp"),
		synonyms:  []string{"tsp", "teaspoon", "teaspoons"},
		max:       5,
		hasMax:    true,
	}
)

// Derived units.
var (
	Milligram = &Unit{
		name:         "mg",
		system:       Metric,
		dimension:    Mass,
		long:         plural("milligram", "milligrams"),
		abbrev:       plain("%s mg"),
		synonyms:     []string{"mg", "milligram", "milligrams"},
		amountForOne: &Amount{Num: .001, Unit: Gram},
		max:          1000,
		hasMax:       true,
	}
	Kilogram = &Unit{
		name:         "kg",
		system:       Metric,
		dimension:    Mass,
		long:         measure("kilogram", "kilograms"),
		abbrev:       narrow("%skg"),
		synonyms:     []string{"kg", "kilogram", "kilograms"},
		amountForOne: &Amount{Num: 1000, Unit: Gram},
		min:          1,
		hasMin:       true,
	}
	Milliliter = &Unit{
		name:         "mL",
		system:       Metric,
		dimension:    Volume,
		long:         measure("milliliter", "milliliters"),
		abbrev:       narrow("%smL"),
		synonyms:     []string{"mL", "ml", "milliliter", "milliliters"},
		amountForOne: &Amount{Num: .001, Unit: Liter},
		max:          1000,
		hasMax:       true,
	}
	Pound = &Unit{
		name:         "lb",
		system:       US,
		dimension:    Mass,
		long:         measure("pound", "pounds"),
		abbrev:       narrow("%slb"),
		synonyms:     []string{"lb", "pound", "pounds"},
		amountForOne: &Amount{Num: 16, Unit: Ounce},
		min:          1,
		hasMin:       true,
	}
	Tablespoon = &Unit{
		name:         "Tbsp",
		system:       US,
		dimension:    Volume,
		long:         plural("tablespoon", "tablespoons"),
		abbrev:       plain("%s Tbsp"),
		synonyms:     []string{"tbsp", "tablespoon", "tablespoons"},
		amountForOne: &Amount{Num: 3, Unit: Teaspoon},
		min:          1,
		hasMin:       true,
	}
	Cup = &Unit{
		name:         "C",
		system:       US,
		dimension:    Volume,
		long:         plural("cup", "cups"),
		abbrev:       plain("%s C"),
		synonyms:     []string{"C", "cup", "cups"},
		amountForOne: &Amount{Num: 16 * 3, Unit: Teaspoon},
		min:          1. / 8,
		hasMin:       true,
	}
	Pint = &Unit{
		name:         "pt",
		system:       US,
		dimension:    Volume,
		long:         plural("pint", "pints"),
		abbrev:       plain("%s pt"),
		synonyms:     []string{"pt", "pint", "pints"},
		amountForOne: &Amount{Num: 2 * 16 * 3, Unit: Teaspoon},
		min:          1,
		hasMin:       true,
	}
	Quart = &Unit{
		name:         "qt",
		system:       US,
		dimension:    Volume,
		long:         plural("quart", "quarts"),
		abbrev:       plain("%s qt"),
		synonyms:     []string{"qt", "quart", "quarts"},
		amountForOne: &Amount{Num: 4 * 16 * 3, Unit: Teaspoon},
		min:          1,
		hasMin:       true,
	}
	Gallon = &Unit{
		name:         "gal",
		system:       US,
		dimension:    Volume,
		long:         plural("gallon", "gallons"),
		abbrev:       plain("%s gal"),
		synonyms:     []string{"gal", "gallon", "gallons"},
		amountForOne: &Amount{Num: 4 * 4 * 16 * 3, Unit: Teaspoon},
		min:          1,
		hasMin:       true,
	}
)

// registry lists every unit, base units first.
var registry = []*Unit{
	Gram, Liter, Ounce, Teaspoon,
	Milligram, Kilogram, Milliliter, Pound, Tablespoon, Cup, Pint, Quart, Gallon,
}

type systemDimension struct {
	system    System
	dimension Dimension
}

// preferences lists, largest first, the units Scale may switch to within
// each system and dimension. US volume stops at cups because kitchen
// measures do.
var preferences = map[systemDimension][]*Unit{
	{US, Mass}:       {Pound, Ounce},
	{US, Volume}:     {Cup, Tablespoon, Teaspoon},
	{Metric, Mass}:   {Kilogram, Gram, Milligram},
	{Metric, Volume}: {Liter, Milliliter},
}

// synonyms indexes every unit by each of its case-sensitive names.
var synonyms = func() map[string]*Unit {
	m := make(map[string]*Unit)
	for _, u := range registry {
		for _, s := range u.synonyms {
			m[s] = u
		}
	}
	return m
}()

// GetUnit looks a unit up by name, first exactly and then lower-cased.
// Unknown names report false.
func GetUnit(name string) (*Unit, bool) {
	if u, ok := synonyms[name]; ok {
		return u, true
	}
	u, ok := synonyms[strings.ToLower(name)]
	return u, ok
}

// All returns every registered unit, base units first.
func All() []*Unit {
	out := make([]*Unit, len(registry))
	copy(out, registry)
	return out
}

// Preferences returns the units Scale chooses among for a system and
// dimension, largest first.
func Preferences(system System, dimension Dimension) []*Unit {
	prefs := preferences[systemDimension{system, dimension}]
	out := make([]*Unit, len(prefs))
	copy(out, prefs)
	return out
}
