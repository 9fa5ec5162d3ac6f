package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semrecipe/recipe"
	"github.com/c360studio/semrecipe/source/weburl"
	"github.com/c360studio/semrecipe/units"
	vocab "github.com/c360studio/semrecipe/vocabulary/recipe"
)

// TripleSource marks triples written by recipe import.
const TripleSource = "semrecipe.import"

// EntityOptions carries the import context stamped on the recipe entity.
type EntityOptions struct {
	// DraftID links the entity to its stored draft, if any.
	DraftID string
	// Now is the import time. Zero means time.Now().
	Now time.Time
}

// IngredientEntityID names the n-th (1-indexed) ingredient of a recipe.
func IngredientEntityID(recipeID string, n int) string {
	return fmt.Sprintf("%s.ingredient.%d", recipeID, n)
}

// StepEntityID names the n-th (1-indexed) step of a recipe.
func StepEntityID(recipeID string, n int) string {
	return fmt.Sprintf("%s.step.%d", recipeID, n)
}

// RecipeEntities flattens r into graph entities: the recipe first, then
// its ingredients and steps in order.
func RecipeEntities(id string, r recipe.Recipe, opts EntityOptions) []*EntityPayload {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	b := tripleBuilder{now: now}

	parent := b.entity(id)
	parent.add(vocab.RecipeType, vocab.TypeRecipe)
	parent.addString(vocab.RecipeName, r.Name)
	parent.addString(vocab.RecipeSourceURL, r.SourceURL)
	parent.addString(vocab.RecipeDomain, weburl.ExtractDomain(r.SourceURL))
	parent.addString(vocab.RecipeDateCreated, r.DateCreated)
	parent.addString(vocab.RecipeYield, r.Yield)
	if len(r.Categories) > 0 {
		parent.add(vocab.RecipeCategory, append([]string(nil), r.Categories...))
	}
	parent.add(vocab.RecipeIngredientCount, len(r.Ingredients))
	parent.add(vocab.RecipeStepCount, len(r.Instructions))
	parent.addString(vocab.RecipeDraftID, opts.DraftID)
	parent.add(vocab.RecipeImportedAt, now.UTC().Format(time.RFC3339))

	entities := []*EntityPayload{nil}
	for i, ing := range r.Ingredients {
		childID := IngredientEntityID(id, i+1)
		parent.add(vocab.HasIngredient, childID)

		child := b.entity(childID)
		child.add(vocab.RecipeType, vocab.TypeIngredient)
		child.add(vocab.PartOf, id)
		child.add(vocab.IngredientPosition, i+1)
		child.addString(vocab.IngredientName, ing.Name)
		child.addString(vocab.IngredientQuantity, ing.Quantity)
		child.addString(vocab.IngredientUnit, ing.Unit)
		child.addString(vocab.IngredientPreparation, ing.Preparation)
		child.addString(vocab.IngredientText, ing.String())
		if u, ok := units.GetUnit(ing.Unit); ok {
			child.add(vocab.IngredientUnitSystem, strings.ToLower(string(u.System())))
		}
		entities = append(entities, child.payload())
	}
	for i, text := range r.Instructions {
		childID := StepEntityID(id, i+1)
		parent.add(vocab.HasStep, childID)

		child := b.entity(childID)
		child.add(vocab.RecipeType, vocab.TypeStep)
		child.add(vocab.PartOf, id)
		child.add(vocab.StepPosition, i+1)
		child.addString(vocab.StepText, text)
		entities = append(entities, child.payload())
	}

	entities[0] = parent.payload()
	return entities
}

type tripleBuilder struct {
	now time.Time
}

func (b tripleBuilder) entity(id string) *entityBuilder {
	return &entityBuilder{id: id, now: b.now}
}

type entityBuilder struct {
	id      string
	now     time.Time
	triples []message.Triple
}

func (e *entityBuilder) add(predicate string, object any) {
	e.triples = append(e.triples, message.Triple{
		Subject:    e.id,
		Predicate:  predicate,
		Object:     object,
		Source:     TripleSource,
		Timestamp:  e.now,
		Confidence: 1.0,
	})
}

// addString skips empty values, which mean absent.
func (e *entityBuilder) addString(predicate, value string) {
	if value != "" {
		e.add(predicate, value)
	}
}

func (e *entityBuilder) payload() *EntityPayload {
	return &EntityPayload{
		EntityID_:  e.id,
		TripleData: e.triples,
		UpdatedAt:  e.now,
	}
}
