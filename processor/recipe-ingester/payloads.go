package recipeingester

import (
	"encoding/json"
	"errors"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semrecipe/source"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "recipe",
		Category:    "import_result",
		Version:     "v1",
		Description: "Outcome of a recipe import request",
		Factory:     func() any { return &ImportResultPayload{} },
	})
	if err != nil {
		panic("failed to register ImportResultPayload: " + err.Error())
	}
}

// ImportResultType is the message type for import results.
var ImportResultType = message.Type{Domain: "recipe", Category: "import_result", Version: "v1"}

// ImportResultPayload implements message.Payload for import results.
type ImportResultPayload struct {
	source.ImportResult
}

// Schema returns the message type for Payload interface.
func (p *ImportResultPayload) Schema() message.Type { return ImportResultType }

// Validate validates the payload for Payload interface.
func (p *ImportResultPayload) Validate() error {
	if p.URL == "" {
		return errors.New("url is required")
	}
	if p.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ImportResultPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(&p.ImportResult)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ImportResultPayload) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.ImportResult)
}
