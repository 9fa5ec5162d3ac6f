// Package source imports recipes from web pages and saved documents into
// draft storage and the knowledge graph.
package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semrecipe/recipe"
	"github.com/c360studio/semrecipe/source/weburl"
)

// ImportStatus is the outcome of one import.
type ImportStatus string

// Import outcomes.
const (
	// StatusImported means at least one recipe became a draft.
	StatusImported ImportStatus = "imported"

	// StatusEmpty means the page had no recipe markup.
	StatusEmpty ImportStatus = "empty"

	// StatusFailed means fetching, storing or publishing failed.
	StatusFailed ImportStatus = "failed"
)

// ImportRequest asks for the recipes at a URL to be imported.
type ImportRequest struct {
	// URL is the page to dereference. Must be HTTPS and public.
	URL string `json:"url"`

	// Owner is recorded on each draft.
	Owner string `json:"owner,omitempty"`

	// RequestID correlates the request with its result.
	RequestID string `json:"request_id,omitempty"`
}

// Validate checks the request before any network access.
func (r ImportRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("url is required")
	}
	if err := weburl.ValidateURL(r.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	return nil
}

// ImportResult reports what an import produced.
type ImportResult struct {
	RequestID  string          `json:"request_id,omitempty"`
	URL        string          `json:"url"`
	FinalURL   string          `json:"final_url,omitempty"`
	Title      string          `json:"title,omitempty"`
	Status     ImportStatus    `json:"status"`
	DraftIDs   []string        `json:"draft_ids"`
	EntityIDs  []string        `json:"entity_ids"`
	Recipes    []recipe.Recipe `json:"recipes"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	ImportedAt time.Time       `json:"imported_at"`
}

// NoRecipesMessage is the message for a page without recipes.
func NoRecipesMessage(url string) string {
	return fmt.Sprintf("Found no recipes in %s.", url)
}

// DraftIDList joins draft IDs the way redirects to the draft editor expect.
func (r *ImportResult) DraftIDList() string {
	return strings.Join(r.DraftIDs, ",")
}
