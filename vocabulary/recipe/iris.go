package recipe

// Namespace is the base IRI prefix for recipe vocabulary terms that
// schema.org does not cover.
const Namespace = "https://semrecipe.dev/ontology/recipe/"

// SchemaNamespace is the schema.org namespace.
const SchemaNamespace = "https://schema.org/"

// schema.org property IRIs used by the mappings.
const (
	SchemaName               = SchemaNamespace + "name"
	SchemaURL                = SchemaNamespace + "url"
	SchemaDateCreated        = SchemaNamespace + "dateCreated"
	SchemaRecipeYield        = SchemaNamespace + "recipeYield"
	SchemaRecipeCategory     = SchemaNamespace + "recipeCategory"
	SchemaRecipeIngredient   = SchemaNamespace + "recipeIngredient"
	SchemaRecipeInstructions = SchemaNamespace + "recipeInstructions"
	SchemaIsPartOf           = SchemaNamespace + "isPartOf"
	SchemaValue              = SchemaNamespace + "value"
	SchemaUnitText           = SchemaNamespace + "unitText"
	SchemaPosition           = SchemaNamespace + "position"
	SchemaText               = SchemaNamespace + "text"
	SchemaDescription        = SchemaNamespace + "description"
)

// Class IRIs for recipe entities.
const (
	// ClassRecipe is a schema.org Recipe.
	ClassRecipe = SchemaNamespace + "Recipe"

	// ClassIngredient is one ingredient line, modeled as a schema.org
	// HowToSupply.
	ClassIngredient = SchemaNamespace + "HowToSupply"

	// ClassStep is one instruction, a schema.org HowToStep.
	ClassStep = SchemaNamespace + "HowToStep"
)
