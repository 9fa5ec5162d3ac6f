package rdf

import (
	"math"
	"sort"
)

// nodeID addresses a term in a Store's arena.
type nodeID int32

// spKey indexes objects by graph, subject and predicate.
type spKey struct {
	graph, subject, predicate nodeID
}

// poKey indexes subjects by predicate and object across all graphs.
type poKey struct {
	predicate, object nodeID
}

type quadKey struct {
	graph, subject, predicate, object nodeID
}

// scopedNode is a subject together with the graph it was asserted in.
type scopedNode struct {
	node, graph nodeID
}

// Store is an in-memory quad set. Terms are interned into an arena and
// addressed by integer IDs; objects are indexed by (graph, subject,
// predicate) in insertion order. Duplicate quads are stored once.
//
// A Store is populated by a Collector and is read-only afterwards, so it
// may be queried from multiple goroutines.
type Store struct {
	terms   []Term
	ids     map[string]nodeID
	objects map[spKey][]nodeID
	byPO    map[poKey][]scopedNode
	seen    map[quadKey]struct{}
	quads   []quadKey
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		ids:     make(map[string]nodeID),
		objects: make(map[spKey][]nodeID),
		byPO:    make(map[poKey][]scopedNode),
		seen:    make(map[quadKey]struct{}),
	}
}

// intern returns the arena ID for t, adding it if needed.
func (s *Store) intern(t Term) nodeID {
	key := internKey(t)
	if id, ok := s.ids[key]; ok {
		return id
	}
	id := nodeID(len(s.terms))
	s.terms = append(s.terms, t)
	s.ids[key] = id
	return id
}

// lookup returns the arena ID for t without adding it.
func (s *Store) lookup(t Term) (nodeID, bool) {
	id, ok := s.ids[internKey(t)]
	return id, ok
}

// internKey separates term kinds that could share an ID string, such as
// the default graph and an empty IRI.
func internKey(t Term) string {
	return string(rune('0'+t.Kind)) + t.ID()
}

// add inserts q, reporting whether it was new.
func (s *Store) add(q Quad) bool {
	k := quadKey{
		graph:     s.intern(q.Graph),
		subject:   s.intern(q.Subject),
		predicate: s.intern(q.Predicate),
		object:    s.intern(q.Object),
	}
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.quads = append(s.quads, k)

	sp := spKey{graph: k.graph, subject: k.subject, predicate: k.predicate}
	s.objects[sp] = append(s.objects[sp], k.object)

	po := poKey{predicate: k.predicate, object: k.object}
	s.byPO[po] = append(s.byPO[po], scopedNode{node: k.subject, graph: k.graph})
	return true
}

// Len returns the number of distinct quads.
func (s *Store) Len() int { return len(s.quads) }

// Quads returns every quad in insertion order.
func (s *Store) Quads() []Quad {
	out := make([]Quad, len(s.quads))
	for i, k := range s.quads {
		out[i] = Quad{
			Subject:   s.terms[k.subject],
			Predicate: s.terms[k.predicate],
			Object:    s.terms[k.object],
			Graph:     s.terms[k.graph],
		}
	}
	return out
}

// AllOfType returns one Subject for every rdf:type assertion whose object
// is typ, in insertion order, each scoped to the graph of its assertion.
func (s *Store) AllOfType(typ Term) []Subject {
	p, ok := s.lookup(NamedNode(RDFType))
	if !ok {
		return []Subject{}
	}
	o, ok := s.lookup(typ)
	if !ok {
		return []Subject{}
	}
	matches := s.byPO[poKey{predicate: p, object: o}]
	out := make([]Subject, len(matches))
	for i, m := range matches {
		out[i] = Subject{store: s, node: m.node, graph: m.graph}
	}
	return out
}

// Subject returns a view of node within graph, or false when either term
// never appeared in the store.
func (s *Store) Subject(node, graph Term) (Subject, bool) {
	n, ok := s.lookup(node)
	if !ok {
		return Subject{}, false
	}
	g, ok := s.lookup(graph)
	if !ok {
		return Subject{}, false
	}
	return Subject{store: s, node: n, graph: g}, true
}

// Subject is a read-only view of one node within one graph of a Store.
// It is valid for as long as the Store is.
type Subject struct {
	store *Store
	node  nodeID
	graph nodeID
}

// Node returns the term this subject views.
func (sub Subject) Node() Term {
	if sub.store == nil {
		return Term{}
	}
	return sub.store.terms[sub.node]
}

// Graph returns the graph scope of the view.
func (sub Subject) Graph() Term {
	if sub.store == nil {
		return DefaultGraph
	}
	return sub.store.terms[sub.graph]
}

// Get returns every object of predicate from this subject, in insertion
// order. An unknown predicate yields an empty slice.
func (sub Subject) Get(predicate Term) []Subject {
	if sub.store == nil {
		return []Subject{}
	}
	p, ok := sub.store.lookup(predicate)
	if !ok {
		return []Subject{}
	}
	objs := sub.store.objects[spKey{graph: sub.graph, subject: sub.node, predicate: p}]
	out := make([]Subject, len(objs))
	for i, o := range objs {
		out[i] = Subject{store: sub.store, node: o, graph: sub.graph}
	}
	return out
}

// GetOrdered is Get sorted ascending by the first-seen position of each
// object in order. Objects missing from order sort last, keeping their
// relative insertion order.
func (sub Subject) GetOrdered(predicate Term, order DocumentOrder) []Subject {
	out := sub.Get(predicate)
	if order == nil {
		return out
	}
	pos := func(s Subject) int {
		if n, ok := order[s.Node().ID()]; ok {
			return n
		}
		return math.MaxInt
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pos(out[i]) < pos(out[j])
	})
	return out
}

// Value returns the literal value of the node and true, or "" and false
// when the node is not a literal.
func (sub Subject) Value() (string, bool) {
	n := sub.Node()
	if !n.IsLiteral() {
		return "", false
	}
	return n.Value, true
}

// FirstValue returns the value of the first literal among subjects.
// Non-literal subjects are skipped.
func FirstValue(subjects []Subject) (string, bool) {
	for _, s := range subjects {
		if v, ok := s.Value(); ok {
			return v, true
		}
	}
	return "", false
}

// Values returns the literal values of subjects, skipping non-literals.
func Values(subjects []Subject) []string {
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if v, ok := s.Value(); ok {
			out = append(out, v)
		}
	}
	return out
}

// URLs returns the IRIs of the named nodes among subjects.
func URLs(subjects []Subject) []string {
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if n := s.Node(); n.IsNamedNode() {
			out = append(out, n.Value)
		}
	}
	return out
}
