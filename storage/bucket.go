package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketDrafts is the KV bucket that holds draft recipes.
const BucketDrafts = "RECIPE_DRAFTS"

// Bucket is the slice of a key/value bucket the draft store needs.
// Get and Delete return ErrNotFound for missing keys.
type Bucket interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// kvBucket adapts a JetStream KeyValue bucket.
type kvBucket struct {
	kv jetstream.KeyValue
}

// NewKVBucket wraps a JetStream KeyValue bucket.
func NewKVBucket(kv jetstream.KeyValue) Bucket {
	return &kvBucket{kv: kv}
}

// OpenKVBucket returns the named bucket, creating it if needed.
func OpenKVBucket(ctx context.Context, js jetstream.JetStream, name string, history uint8) (Bucket, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return NewKVBucket(kv), nil
	}
	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Draft recipes awaiting review",
		History:     history,
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", name, err)
	}
	return NewKVBucket(kv), nil
}

func (b *kvBucket) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.kv.Put(ctx, key, value)
	return err
}

func (b *kvBucket) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value(), nil
}

func (b *kvBucket) Delete(ctx context.Context, key string) error {
	if _, err := b.kv.Get(ctx, key); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return b.kv.Delete(ctx, key)
}

func (b *kvBucket) Keys(ctx context.Context) ([]string, error) {
	keys, err := b.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil, nil
	}
	return keys, err
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "key not found")
}
