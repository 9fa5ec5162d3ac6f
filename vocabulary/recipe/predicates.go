package recipe

import "github.com/c360studio/semstreams/vocabulary"

// Recipe metadata predicates.
const (
	// RecipeType identifies the entity kind.
	// Values: recipe, ingredient, step
	RecipeType = "recipe.meta.type"

	// RecipeName is the recipe title.
	RecipeName = "recipe.meta.name"

	// RecipeSourceURL is the page the recipe was read from, after redirects.
	RecipeSourceURL = "recipe.meta.source_url"

	// RecipeDomain is the host of the source page.
	RecipeDomain = "recipe.meta.domain"

	// RecipeDateCreated is when the recipe was first published, as the
	// page states it.
	RecipeDateCreated = "recipe.meta.date_created"

	// RecipeYield is the number of servings. Only numeric yields are kept.
	RecipeYield = "recipe.meta.yield"

	// RecipeCategory lists the recipe categories (array).
	RecipeCategory = "recipe.meta.category"

	// RecipeIngredientCount is the number of ingredient lines.
	RecipeIngredientCount = "recipe.meta.ingredient_count"

	// RecipeStepCount is the number of instructions.
	RecipeStepCount = "recipe.meta.step_count"

	// RecipeDraftID links the recipe to its stored draft.
	RecipeDraftID = "recipe.meta.draft_id"

	// RecipeImportedAt is when the page was imported.
	RecipeImportedAt = "recipe.meta.imported_at"
)

// Structure predicates link recipes to their parts.
const (
	// HasIngredient links a recipe to an ingredient entity.
	HasIngredient = "recipe.structure.has_ingredient"

	// HasStep links a recipe to a step entity.
	HasStep = "recipe.structure.has_step"

	// PartOf links an ingredient or step back to its recipe.
	PartOf = "recipe.structure.part_of"
)

// Ingredient predicates.
const (
	// IngredientName is what the ingredient is ("flour").
	IngredientName = "recipe.ingredient.name"

	// IngredientQuantity is the amount as written ("1 1/2").
	IngredientQuantity = "recipe.ingredient.quantity"

	// IngredientUnit is the unit word as written ("cups").
	IngredientUnit = "recipe.ingredient.unit"

	// IngredientPreparation is the text after the first comma ("sifted").
	IngredientPreparation = "recipe.ingredient.preparation"

	// IngredientText is the whole line joined back together.
	IngredientText = "recipe.ingredient.text"

	// IngredientPosition is the 1-indexed line number.
	IngredientPosition = "recipe.ingredient.position"

	// IngredientUnitSystem is the measurement system of a recognized unit.
	// Values: us, metric
	IngredientUnitSystem = "recipe.ingredient.unit_system"
)

// Step predicates.
const (
	// StepText is the instruction text.
	StepText = "recipe.step.text"

	// StepPosition is the 1-indexed step number.
	StepPosition = "recipe.step.position"
)

// Entity kinds carried by RecipeType.
const (
	TypeRecipe     = "recipe"
	TypeIngredient = "ingredient"
	TypeStep       = "step"
)

func init() {
	vocabulary.Register(RecipeType,
		vocabulary.WithDescription("Entity kind: recipe, ingredient, step"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"entityType"))

	vocabulary.Register(RecipeName,
		vocabulary.WithDescription("Recipe title"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaName))

	vocabulary.Register(RecipeSourceURL,
		vocabulary.WithDescription("Page the recipe was read from, after redirects"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaURL))

	vocabulary.Register(RecipeDomain,
		vocabulary.WithDescription("Host of the source page"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"domain"))

	vocabulary.Register(RecipeDateCreated,
		vocabulary.WithDescription("Publication date stated by the page"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaDateCreated))

	vocabulary.Register(RecipeYield,
		vocabulary.WithDescription("Number of servings"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaRecipeYield))

	vocabulary.Register(RecipeCategory,
		vocabulary.WithDescription("Recipe categories"),
		vocabulary.WithDataType("array"),
		vocabulary.WithIRI(SchemaRecipeCategory))

	vocabulary.Register(RecipeIngredientCount,
		vocabulary.WithDescription("Number of ingredient lines"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"ingredientCount"))

	vocabulary.Register(RecipeStepCount,
		vocabulary.WithDescription("Number of instructions"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"stepCount"))

	vocabulary.Register(RecipeDraftID,
		vocabulary.WithDescription("Stored draft holding this recipe"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"draftId"))

	vocabulary.Register(RecipeImportedAt,
		vocabulary.WithDescription("When the page was imported"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(Namespace+"importedAt"))

	vocabulary.Register(HasIngredient,
		vocabulary.WithDescription("Links a recipe to an ingredient"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(SchemaRecipeIngredient))

	vocabulary.Register(HasStep,
		vocabulary.WithDescription("Links a recipe to an instruction step"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(SchemaRecipeInstructions))

	vocabulary.Register(PartOf,
		vocabulary.WithDescription("Links an ingredient or step to its recipe"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(SchemaIsPartOf))

	vocabulary.Register(IngredientName,
		vocabulary.WithDescription("Ingredient name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaName))

	vocabulary.Register(IngredientQuantity,
		vocabulary.WithDescription("Amount as written"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaValue))

	vocabulary.Register(IngredientUnit,
		vocabulary.WithDescription("Unit word as written"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaUnitText))

	vocabulary.Register(IngredientPreparation,
		vocabulary.WithDescription("Preparation note after the first comma"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"preparation"))

	vocabulary.Register(IngredientText,
		vocabulary.WithDescription("Whole ingredient line"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaDescription))

	vocabulary.Register(IngredientPosition,
		vocabulary.WithDescription("Ingredient line number (1-indexed)"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(SchemaPosition))

	vocabulary.Register(IngredientUnitSystem,
		vocabulary.WithDescription("Measurement system of a recognized unit: us, metric"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"unitSystem"))

	vocabulary.Register(StepText,
		vocabulary.WithDescription("Instruction text"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaText))

	vocabulary.Register(StepPosition,
		vocabulary.WithDescription("Step number (1-indexed)"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(SchemaPosition))
}
