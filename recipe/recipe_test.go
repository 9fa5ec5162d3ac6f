package recipe

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeJSON(t *testing.T) {
	t.Run("empty lists marshal as arrays", func(t *testing.T) {
		data, err := json.Marshal(Recipe{Name: "Toast"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Toast","recipeCategory":[],"recipeIngredient":[],"recipeInstructions":[]}`, string(data))
	})

	t.Run("missing lists unmarshal as empty", func(t *testing.T) {
		var r Recipe
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Toast","recipeCategory":null}`), &r))
		assert.Equal(t, "Toast", r.Name)
		assert.NotNil(t, r.Categories)
		assert.NotNil(t, r.Ingredients)
		assert.NotNil(t, r.Instructions)
	})

	t.Run("ingredient fields are omitted when empty", func(t *testing.T) {
		data, err := json.Marshal(Ingredient{Name: "salt"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"salt"}`, string(data))
	})

	t.Run("schema.org field names", func(t *testing.T) {
		in := Recipe{
			DateCreated:  "2024-01-02",
			SourceURL:    "https://example.com/r",
			Yield:        "4",
			Categories:   []string{"Dinner"},
			Ingredients:  []Ingredient{{Quantity: "1", Unit: "cup", Name: "rice"}},
			Instructions: []string{"Cook."},
		}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		for _, key := range []string{"dateCreated", "sourceUrl", "recipeYield", "recipeCategory", "recipeIngredient", "recipeInstructions"} {
			assert.Contains(t, fields, key)
		}

		var out Recipe
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestRecipeValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{"empty", Recipe{}, false},
		{"absolute URL", Recipe{SourceURL: "https://example.com/a"}, false},
		{"relative URL", Recipe{SourceURL: "/recipes/a"}, true},
		{"numeric yield", Recipe{Yield: " 4 "}, false},
		{"text yield", Recipe{Yield: "4 servings"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRecipe), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIngredientString(t *testing.T) {
	assert.Equal(t, "1 cup flour, sifted", Ingredient{Quantity: "1", Unit: "cup", Name: "flour", Preparation: "sifted"}.String())
	assert.Equal(t, "salt", Ingredient{Name: "salt"}.String())
	assert.Equal(t, "2 eggs", Ingredient{Quantity: "2", Name: "eggs"}.String())
}
