package rdf

import (
	"errors"
	"testing"
)

func TestCollectorOrder(t *testing.T) {
	a, b, c := BlankNode("a"), BlankNode("b"), BlankNode("c")
	p := schema("p")

	col := NewCollector()
	quads := []Quad{
		triple(a, p, b),
		triple(c, p, a),
		triple(b, p, Literal("x")),
		triple(a, p, b),
	}
	for _, q := range quads {
		if err := col.Add(q); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	_, order := col.Close()

	tests := []struct {
		term Term
		want int
	}{
		{a, 0},
		{b, 1},
		{c, 2},
		{Literal("x"), 3},
	}
	for _, tt := range tests {
		got, ok := order.Position(tt.term)
		if !ok {
			t.Errorf("%s: missing from order", tt.term)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected position %d, got %d", tt.term, tt.want, got)
		}
	}
	if len(order) != 4 {
		t.Errorf("expected 4 entries, got %d", len(order))
	}
	if _, ok := order.Position(p); ok {
		t.Error("predicates must not be numbered")
	}
}

func TestCollectorClosed(t *testing.T) {
	col := NewCollector()
	store1, order1 := col.Close()

	err := col.Add(triple(BlankNode("a"), schema("p"), Literal("x")))
	if !errors.Is(err, ErrCollectorClosed) {
		t.Fatalf("expected ErrCollectorClosed, got %v", err)
	}

	store2, order2 := col.Close()
	if store1 != store2 {
		t.Error("second Close returned a different store")
	}
	if len(order1) != 0 || len(order2) != 0 {
		t.Error("closed collector must not record quads")
	}
}

func TestLiteralIdentity(t *testing.T) {
	tests := []struct {
		name string
		a, b Term
		same bool
	}{
		{"plain equals xsd:string", Literal("x"), TypedLiteral("x", XSDString), true},
		{"lang tag case folded", LangLiteral("x", "EN"), LangLiteral("x", "en"), true},
		{"plain differs from lang", Literal("x"), LangLiteral("x", "en"), false},
		{"literal differs from IRI", Literal("x"), NamedNode("x"), false},
		{"blank differs from IRI", BlankNode("x"), NamedNode("_:x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := internKey(tt.a) == internKey(tt.b)
			if got != tt.same {
				t.Errorf("expected same=%v for %s and %s", tt.same, tt.a, tt.b)
			}
		})
	}
}
