package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryBucket is a process-local Bucket for tests and single-process
// runs without a NATS server.
type MemoryBucket struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBucket creates an empty MemoryBucket.
func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{data: make(map[string][]byte)}
}

// Put stores a copy of value.
func (b *MemoryBucket) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
	return nil
}

// Get returns the value of key.
func (b *MemoryBucket) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Delete removes key.
func (b *MemoryBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[key]; !ok {
		return ErrNotFound
	}
	delete(b.data, key)
	return nil
}

// Keys returns every key in sorted order.
func (b *MemoryBucket) Keys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored keys.
func (b *MemoryBucket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
