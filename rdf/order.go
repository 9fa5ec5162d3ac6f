package rdf

import (
	"errors"
	"sync"
)

// ErrCollectorClosed is returned when quads are added after Close.
var ErrCollectorClosed = errors.New("rdf: collector closed")

// DocumentOrder maps a term ID (see Term.ID) to the position at which the
// term first appeared as a subject or object while the document was read.
// It is immutable once returned by Collector.Close.
type DocumentOrder map[string]int

// Position returns the first-seen position of t.
func (o DocumentOrder) Position(t Term) (int, bool) {
	n, ok := o[t.ID()]
	return n, ok
}

// Collector accumulates a quad stream into a Store while tracking the
// order in which subjects and objects were first seen. The Store and
// order are only handed out by Close, so no query can observe a
// partially populated graph.
type Collector struct {
	mu     sync.Mutex
	store  *Store
	order  DocumentOrder
	closed bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		store: NewStore(),
		order: make(DocumentOrder),
	}
}

// Add records q. The subject is numbered before the object; identifiers
// already seen keep their number. Duplicate quads are stored once but
// still participate in ordering.
func (c *Collector) Add(q Quad) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCollectorClosed
	}
	c.see(q.Subject)
	c.see(q.Object)
	c.store.add(q)
	return nil
}

func (c *Collector) see(t Term) {
	id := t.ID()
	if _, ok := c.order[id]; !ok {
		c.order[id] = len(c.order)
	}
}

// Close ends the stream and returns the populated store with its
// document order. Calling Close again returns the same values.
func (c *Collector) Close() (*Store, DocumentOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return c.store, c.order
}
