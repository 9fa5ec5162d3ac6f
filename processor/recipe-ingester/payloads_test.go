package recipeingester

import (
	"encoding/json"
	"testing"

	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/semrecipe/source"
)

func TestImportResultPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload ImportResultPayload
		wantErr bool
	}{
		{name: "valid", payload: ImportResultPayload{source.ImportResult{URL: "https://example.com/soup", Status: source.StatusImported}}},
		{name: "missing url", payload: ImportResultPayload{source.ImportResult{Status: source.StatusEmpty}}, wantErr: true},
		{name: "missing status", payload: ImportResultPayload{source.ImportResult{URL: "https://example.com/soup"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestImportResultPayloadJSON(t *testing.T) {
	p := &ImportResultPayload{source.ImportResult{
		RequestID: "req-9",
		URL:       "https://example.com/soup",
		Status:    source.StatusImported,
		DraftIDs:  []string{"draft:1", "draft:2"},
	}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got ImportResultPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RequestID != "req-9" || got.DraftIDList() != "draft:1,draft:2" {
		t.Errorf("unexpected payload %+v", got)
	}
	if got.Schema() != ImportResultType {
		t.Errorf("Schema() = %v", got.Schema())
	}
}

type recordingRegistry struct {
	got component.RegistrationConfig
}

func (r *recordingRegistry) RegisterWithConfig(cfg component.RegistrationConfig) error {
	r.got = cfg
	return nil
}

func TestRegister(t *testing.T) {
	if err := Register(nil); err == nil {
		t.Error("expected error for nil registry")
	}

	r := &recordingRegistry{}
	if err := Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if r.got.Name != "recipe-ingester" || r.got.Domain != "recipe" {
		t.Errorf("unexpected registration %+v", r.got)
	}
}
