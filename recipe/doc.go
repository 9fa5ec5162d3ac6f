// Package recipe extracts schema.org Recipe markup from a quad store into
// canonical Recipe values.
//
// Extraction is pure and synchronous. The caller fetches and parses the
// page (see source/dereference), then hands the closed store, its document
// order, and the final page URL to Parse:
//
//	store, order := collector.Close()
//	recipes := recipe.Parse(store, finalURL, order)
//
// Ingredients are accepted either as free text ("1 cup flour, sifted") or
// as nodes with name and requiredQuantity properties. Instructions are
// accepted as text or as HowToStep nodes with optional positions.
package recipe
