package recipeingester

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the recipe-ingester processor component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "recipe-ingester",
		Factory:     NewComponent,
		Schema:      recipeIngesterSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "recipe",
		Description: "Imports schema.org recipes from web pages into drafts and the knowledge graph",
		Version:     "0.1.0",
	})
}
