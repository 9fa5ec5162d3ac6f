package graph

import (
	"testing"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semrecipe/recipe"
	vocab "github.com/c360studio/semrecipe/vocabulary/recipe"
)

const testRecipeID = "recipe.web.example-com-recipes-pancakes"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func pancakes() recipe.Recipe {
	return recipe.Recipe{
		Name:       "Pancakes",
		SourceURL:  "https://example.com/recipes/pancakes",
		Yield:      "4",
		Categories: []string{"Breakfast"},
		Ingredients: []recipe.Ingredient{
			{Quantity: "1 1/2", Unit: "cups", Name: "flour", Preparation: "sifted"},
			{Quantity: "1", Name: "egg"},
		},
		Instructions: []string{"Whisk.", "Fry."},
	}
}

// objects collects the objects of predicate on an entity.
func objects(e *EntityPayload, predicate string) []any {
	var out []any
	for _, t := range e.Triples() {
		if t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

func TestRecipeEntities(t *testing.T) {
	entities := RecipeEntities(testRecipeID, pancakes(), EntityOptions{DraftID: "draft:abc", Now: testNow})
	require.Len(t, entities, 5)

	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.EntityID()
		require.NoError(t, e.Validate())
	}
	assert.Equal(t, []string{
		testRecipeID,
		testRecipeID + ".ingredient.1",
		testRecipeID + ".ingredient.2",
		testRecipeID + ".step.1",
		testRecipeID + ".step.2",
	}, ids)

	parent := entities[0]
	assert.Equal(t, []any{vocab.TypeRecipe}, objects(parent, vocab.RecipeType))
	assert.Equal(t, []any{"Pancakes"}, objects(parent, vocab.RecipeName))
	assert.Equal(t, []any{"example.com"}, objects(parent, vocab.RecipeDomain))
	assert.Equal(t, []any{"4"}, objects(parent, vocab.RecipeYield))
	assert.Equal(t, []any{[]string{"Breakfast"}}, objects(parent, vocab.RecipeCategory))
	assert.Equal(t, []any{2}, objects(parent, vocab.RecipeIngredientCount))
	assert.Equal(t, []any{2}, objects(parent, vocab.RecipeStepCount))
	assert.Equal(t, []any{"draft:abc"}, objects(parent, vocab.RecipeDraftID))
	assert.Equal(t, []any{"2026-03-01T12:00:00Z"}, objects(parent, vocab.RecipeImportedAt))
	assert.Equal(t, []any{testRecipeID + ".ingredient.1", testRecipeID + ".ingredient.2"},
		objects(parent, vocab.HasIngredient))
	assert.Equal(t, []any{testRecipeID + ".step.1", testRecipeID + ".step.2"},
		objects(parent, vocab.HasStep))
	assert.Empty(t, objects(parent, vocab.RecipeDateCreated))

	flour := entities[1]
	assert.Equal(t, []any{testRecipeID}, objects(flour, vocab.PartOf))
	assert.Equal(t, []any{1}, objects(flour, vocab.IngredientPosition))
	assert.Equal(t, []any{"1 1/2"}, objects(flour, vocab.IngredientQuantity))
	assert.Equal(t, []any{"cups"}, objects(flour, vocab.IngredientUnit))
	assert.Equal(t, []any{"1 1/2 cups flour, sifted"}, objects(flour, vocab.IngredientText))

	egg := entities[2]
	assert.Empty(t, objects(egg, vocab.IngredientUnit))
	assert.Empty(t, objects(egg, vocab.IngredientUnitSystem))

	step := entities[4]
	assert.Equal(t, []any{vocab.TypeStep}, objects(step, vocab.RecipeType))
	assert.Equal(t, []any{2}, objects(step, vocab.StepPosition))
	assert.Equal(t, []any{"Fry."}, objects(step, vocab.StepText))
}

func TestRecipeEntitiesTripleMetadata(t *testing.T) {
	entities := RecipeEntities(testRecipeID, pancakes(), EntityOptions{Now: testNow})
	for _, e := range entities {
		assert.Equal(t, testNow, e.UpdatedAt)
		for _, tr := range e.Triples() {
			assert.Equal(t, e.EntityID(), tr.Subject)
			assert.Equal(t, TripleSource, tr.Source)
			assert.Equal(t, testNow, tr.Timestamp)
			assert.Equal(t, 1.0, tr.Confidence)
		}
	}
	assert.Empty(t, objects(entities[0], vocab.RecipeDraftID))
}

func TestRecipeEntitiesUnitSystem(t *testing.T) {
	r := recipe.Recipe{Ingredients: []recipe.Ingredient{
		{Quantity: "2", Unit: "tsp", Name: "salt"},
		{Quantity: "500", Unit: "g", Name: "flour"},
		{Quantity: "3", Unit: "handfuls", Name: "spinach"},
	}}
	entities := RecipeEntities(testRecipeID, r, EntityOptions{Now: testNow})
	require.Len(t, entities, 4)

	assert.Equal(t, []any{"us"}, objects(entities[1], vocab.IngredientUnitSystem))
	assert.Equal(t, []any{"metric"}, objects(entities[2], vocab.IngredientUnitSystem))
	assert.Empty(t, objects(entities[3], vocab.IngredientUnitSystem))
}

func TestRecipeEntitiesEmptyRecipe(t *testing.T) {
	entities := RecipeEntities(testRecipeID, recipe.Recipe{}, EntityOptions{})
	require.Len(t, entities, 1)
	assert.Equal(t, []any{0}, objects(entities[0], vocab.RecipeIngredientCount))
	assert.False(t, entities[0].UpdatedAt.IsZero())
}

func TestEntityPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload EntityPayload
		wantErr bool
	}{
		{
			name: "valid",
			payload: EntityPayload{
				EntityID_:  testRecipeID,
				TripleData: []message.Triple{{Subject: testRecipeID, Predicate: vocab.RecipeName, Object: "x"}},
			},
		},
		{name: "missing ID", payload: EntityPayload{TripleData: []message.Triple{{}}}, wantErr: true},
		{name: "no triples", payload: EntityPayload{EntityID_: testRecipeID}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntityPayloadSchema(t *testing.T) {
	p := &EntityPayload{}
	assert.Equal(t, "recipe", p.Schema().Domain)
	assert.Equal(t, "entity", p.Schema().Category)
	assert.Equal(t, "v1", p.Schema().Version)
}
