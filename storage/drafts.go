// Package storage keeps imported recipes as drafts in NATS KV until a
// user reviews them.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semrecipe/recipe"
)

// DraftPrefix starts every draft ID.
const DraftPrefix = "draft:"

// Draft is a recipe imported from a page and not yet saved.
type Draft struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner,omitempty"`
	SourceURL string        `json:"source_url"`
	Recipe    recipe.Recipe `json:"recipe"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewDraftID generates a new draft ID.
func NewDraftID() string {
	return DraftPrefix + uuid.New().String()
}

// ParseDraftID returns the KV key of a draft ID.
func ParseDraftID(id string) (string, error) {
	key, ok := strings.CutPrefix(id, DraftPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if _, err := uuid.Parse(key); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return key, nil
}

// DraftStore stores drafts in a key/value bucket keyed by UUID.
type DraftStore struct {
	bucket Bucket
	now    func() time.Time
}

// NewDraftStore creates a store over bucket.
func NewDraftStore(bucket Bucket) *DraftStore {
	return &DraftStore{bucket: bucket, now: time.Now}
}

// Create stores one draft per recipe and returns them in the same order.
// If any write fails, the drafts already written are removed.
func (s *DraftStore) Create(ctx context.Context, owner string, recipes []recipe.Recipe) ([]*Draft, error) {
	drafts := make([]*Draft, 0, len(recipes))
	for _, r := range recipes {
		d := &Draft{
			ID:        NewDraftID(),
			Owner:     owner,
			SourceURL: r.SourceURL,
			Recipe:    r,
			CreatedAt: s.now().UTC(),
		}
		if err := s.put(ctx, d); err != nil {
			s.rollback(ctx, drafts)
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (s *DraftStore) rollback(ctx context.Context, drafts []*Draft) {
	for _, d := range drafts {
		// Best effort; the write error is what the caller needs.
		_ = s.Delete(context.WithoutCancel(ctx), d.ID, d.Owner)
	}
}

func (s *DraftStore) put(ctx context.Context, d *Draft) error {
	key, err := ParseDraftID(d.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.bucket.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Get retrieves a draft by ID. A non-empty owner scopes the lookup: a draft
// belonging to someone else is reported as ErrNotFound.
func (s *DraftStore) Get(ctx context.Context, id, owner string) (*Draft, error) {
	key, err := ParseDraftID(id)
	if err != nil {
		return nil, err
	}
	data, err := s.bucket.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if owner != "" && d.Owner != owner {
		return nil, ErrNotFound
	}
	return &d, nil
}

// List returns the drafts of owner, oldest first. An empty owner lists
// every draft.
func (s *DraftStore) List(ctx context.Context, owner string) ([]*Draft, error) {
	keys, err := s.bucket.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	drafts := make([]*Draft, 0, len(keys))
	for _, key := range keys {
		d, err := s.Get(ctx, DraftPrefix+key, owner)
		if err != nil {
			// Deleted between Keys and Get, or owned by someone else.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		drafts = append(drafts, d)
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		if !drafts[i].CreatedAt.Equal(drafts[j].CreatedAt) {
			return drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
		}
		return drafts[i].ID < drafts[j].ID
	})
	return drafts, nil
}

// Delete removes a draft. A non-empty owner must match the draft's owner,
// otherwise ErrNotFound is returned and nothing is removed.
func (s *DraftStore) Delete(ctx context.Context, id, owner string) error {
	key, err := ParseDraftID(id)
	if err != nil {
		return err
	}
	if owner != "" {
		if _, err := s.Get(ctx, id, owner); err != nil {
			return err
		}
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
