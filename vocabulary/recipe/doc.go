// Package recipe provides vocabulary predicates for recipes imported from
// web pages.
//
// # Semstreams Integration
//
// This package follows semstreams vocabulary patterns:
//   - Predicates use three-level dotted notation (domain.category.property)
//   - Predicates are registered in init() using vocabulary.Register()
//   - IRI mappings use vocabulary.WithIRI(), mostly to schema.org
//
// # Entity Model
//
// One page yields one parent entity per recipe plus child entities for its
// ingredients and steps:
//
//	Recipe:     recipe.web.{slug}
//	  - name, source_url, yield, category, date_created
//	  - has_ingredient -> each ingredient entity
//	  - has_step -> each step entity
//	Ingredient: recipe.web.{slug}.ingredient.{n}
//	  - quantity, unit, name, preparation, position, unit_system
//	Step:       recipe.web.{slug}.step.{n}
//	  - text, position
//
// Child entities point back with recipe.structure.part_of. Positions are
// 1-indexed.
package recipe
