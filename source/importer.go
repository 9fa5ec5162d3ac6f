package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semrecipe/graph"
	"github.com/c360studio/semrecipe/source/dereference"
	"github.com/c360studio/semrecipe/source/weburl"
	"github.com/c360studio/semrecipe/storage"
)

// DocumentSource turns a URL into a parsed document.
// *dereference.Dereferencer satisfies it.
type DocumentSource interface {
	Dereference(ctx context.Context, url string) (*dereference.Document, error)
}

// Importer runs one import: dereference, extract, store drafts, publish
// graph entities. Drafts and publisher are optional; a nil one is skipped.
type Importer struct {
	source    DocumentSource
	drafts    *storage.DraftStore
	publisher graph.StreamPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewImporter creates an Importer.
func NewImporter(src DocumentSource, drafts *storage.DraftStore, publisher graph.StreamPublisher, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		source:    src,
		drafts:    drafts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Import dereferences req.URL and imports every recipe on the page.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if im.source == nil {
		return nil, fmt.Errorf("import %s: no document source configured", req.URL)
	}
	doc, err := im.source.Dereference(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return im.ImportDocument(ctx, doc, req)
}

// ImportDocument imports the recipes of an already parsed document. If
// publishing fails the drafts created for the document are removed again,
// so a retried request does not leave duplicates.
func (im *Importer) ImportDocument(ctx context.Context, doc *dereference.Document, req ImportRequest) (*ImportResult, error) {
	now := im.now()
	recipes := doc.Recipes()
	result := &ImportResult{
		RequestID:  req.RequestID,
		URL:        req.URL,
		FinalURL:   doc.FinalURL,
		Title:      doc.Title,
		DraftIDs:   []string{},
		EntityIDs:  []string{},
		Recipes:    recipes,
		ImportedAt: now,
	}
	if result.URL == "" {
		result.URL = doc.FinalURL
	}

	if len(recipes) == 0 {
		result.Status = StatusEmpty
		result.Message = NoRecipesMessage(result.URL)
		im.logger.Info("No recipes found", "url", result.URL)
		return result, nil
	}

	var drafts []*storage.Draft
	if im.drafts != nil {
		var err error
		drafts, err = im.drafts.Create(ctx, req.Owner, recipes)
		if err != nil {
			return nil, fmt.Errorf("store drafts: %w", err)
		}
		for _, d := range drafts {
			result.DraftIDs = append(result.DraftIDs, d.ID)
		}
	}

	for i, r := range recipes {
		entityID := weburl.RecipeEntityID(doc.FinalURL, i)
		result.EntityIDs = append(result.EntityIDs, entityID)

		opts := graph.EntityOptions{Now: now}
		if i < len(drafts) {
			opts.DraftID = drafts[i].ID
		}
		entities := graph.RecipeEntities(entityID, r, opts)
		if err := graph.PublishEntities(ctx, im.publisher, entities); err != nil {
			im.discard(ctx, drafts)
			return nil, fmt.Errorf("publish recipe %s: %w", entityID, err)
		}
	}

	result.Status = StatusImported
	im.logger.Info("Imported recipes",
		"url", result.URL,
		"recipes", len(recipes),
		"drafts", result.DraftIDList())
	return result, nil
}

func (im *Importer) discard(ctx context.Context, drafts []*storage.Draft) {
	ctx = context.WithoutCancel(ctx)
	for _, d := range drafts {
		if err := im.drafts.Delete(ctx, d.ID, d.Owner); err != nil {
			im.logger.Warn("Failed to remove draft after publish failure", "draft", d.ID, "error", err)
		}
	}
}
