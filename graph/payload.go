package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "recipe",
		Category:    "entity",
		Version:     "v1",
		Description: "Recipe, ingredient or step entity for graph ingestion",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for recipe entity payloads.
var EntityType = message.Type{Domain: "recipe", Category: "entity", Version: "v1"}

// EntityPayload implements message.Payload and graph.Graphable for recipe
// entities.
type EntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EntityID returns the entity identifier for Graphable interface.
func (e *EntityPayload) EntityID() string { return e.EntityID_ }

// Triples returns the entity triples for Graphable interface.
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }

// Schema returns the message type.
func (e *EntityPayload) Schema() message.Type { return EntityType }

// Validate checks the payload has an ID and at least one triple.
func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if len(e.TripleData) == 0 {
		return errors.New("entity has no triples")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
