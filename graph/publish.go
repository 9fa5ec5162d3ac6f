// Package graph turns extracted recipes into knowledge graph entities and
// publishes them for ingestion.
package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/c360studio/semstreams/message"
)

// GraphIngestSubject is the subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// messageSource is the source stamped on published messages.
const messageSource = "semrecipe"

// StreamPublisher publishes to a JetStream subject. *natsclient.Client
// satisfies it.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// PublishEntities publishes entities as RecipeEntities orders them. The
// children go out before the parent so a parent never points at a child
// the graph has not seen. A nil publisher is a no-op.
func PublishEntities(ctx context.Context, p StreamPublisher, entities []*EntityPayload) error {
	if p == nil || len(entities) == 0 {
		return nil
	}
	for _, child := range entities[1:] {
		if err := publishEntity(ctx, p, child); err != nil {
			return err
		}
	}
	return publishEntity(ctx, p, entities[0])
}

func publishEntity(ctx context.Context, p StreamPublisher, entity *EntityPayload) error {
	if err := entity.Validate(); err != nil {
		return fmt.Errorf("invalid entity %s: %w", entity.EntityID_, err)
	}
	msg := message.NewBaseMessage(EntityType, entity, messageSource)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal entity %s: %w", entity.EntityID_, err)
	}
	if err := p.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", entity.EntityID_, err)
	}
	return nil
}
