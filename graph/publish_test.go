package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semrecipe/recipe"
)

type recordingPublisher struct {
	subjects []string
	ids      []string
	failOn   string
}

func (r *recordingPublisher) PublishToStream(_ context.Context, subject string, data []byte) error {
	var envelope struct {
		Payload struct {
			ID string `json:"id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Payload.ID == r.failOn {
		return errors.New("stream unavailable")
	}
	r.subjects = append(r.subjects, subject)
	r.ids = append(r.ids, envelope.Payload.ID)
	return nil
}

func TestPublishEntitiesChildrenFirst(t *testing.T) {
	entities := RecipeEntities(testRecipeID, pancakes(), EntityOptions{Now: testNow})
	p := &recordingPublisher{}

	require.NoError(t, PublishEntities(context.Background(), p, entities))

	require.Len(t, p.ids, len(entities))
	assert.Equal(t, testRecipeID, p.ids[len(p.ids)-1])
	assert.Equal(t, testRecipeID+".ingredient.1", p.ids[0])
	for _, s := range p.subjects {
		assert.Equal(t, GraphIngestSubject, s)
	}
}

func TestPublishEntitiesStopsOnError(t *testing.T) {
	entities := RecipeEntities(testRecipeID, pancakes(), EntityOptions{Now: testNow})
	p := &recordingPublisher{failOn: testRecipeID + ".step.1"}

	err := PublishEntities(context.Background(), p, entities)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step.1")
	assert.NotContains(t, p.ids, testRecipeID)
}

func TestPublishEntitiesNoop(t *testing.T) {
	entities := RecipeEntities(testRecipeID, recipe.Recipe{}, EntityOptions{})
	assert.NoError(t, PublishEntities(context.Background(), nil, entities))
	assert.NoError(t, PublishEntities(context.Background(), &recordingPublisher{}, nil))
}
