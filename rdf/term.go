package rdf

import (
	"strconv"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermDefaultGraph marks the default graph in the graph position of a
	// quad. It is the zero kind.
	TermDefaultGraph TermKind = iota
	// TermIRI represents a named node.
	TermIRI
	// TermBlankNode represents a blank node.
	TermBlankNode
	// TermLiteral represents a literal.
	TermLiteral
)

// Well-known IRIs.
const (
	RDFType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	LangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Term is a node in the graph: a named node, a blank node, or a literal.
// The zero Term is the default graph.
type Term struct {
	// Kind classifies the term.
	Kind TermKind
	// Value is the IRI, blank node label (without "_:"), or literal lexical form.
	Value string
	// Datatype is the literal datatype IRI. Empty means xsd:string.
	Datatype string
	// Lang is the literal language tag, if any.
	Lang string
}

// DefaultGraph is the graph term for quads outside any named graph.
var DefaultGraph = Term{Kind: TermDefaultGraph}

// NamedNode returns an IRI term.
func NamedNode(iri string) Term { return Term{Kind: TermIRI, Value: iri} }

// BlankNode returns a blank node term with the given label.
func BlankNode(label string) Term { return Term{Kind: TermBlankNode, Value: label} }

// Literal returns a plain string literal.
func Literal(value string) Term { return Term{Kind: TermLiteral, Value: value} }

// TypedLiteral returns a literal with a datatype. xsd:string is stored as plain.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: TermLiteral, Value: value, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(value, lang string) Term {
	return Term{Kind: TermLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// IsNamedNode reports whether the term is an IRI.
func (t Term) IsNamedNode() bool { return t.Kind == TermIRI }

// IsBlankNode reports whether the term is a blank node.
func (t Term) IsBlankNode() bool { return t.Kind == TermBlankNode }

// IsDefaultGraph reports whether the term is the default graph marker.
func (t Term) IsDefaultGraph() bool { return t.Kind == TermDefaultGraph }

// ID returns the identity string of the term. Two terms are the same node
// exactly when their IDs are equal; DocumentOrder is keyed by it.
//
// IRIs are their value, blank nodes are "_:label", and literals are the
// quoted lexical form followed by "@lang" or "^^datatype" when present.
func (t Term) ID() string {
	switch t.Kind {
	case TermIRI:
		return t.Value
	case TermBlankNode:
		return "_:" + t.Value
	case TermLiteral:
		id := strconv.Quote(t.Value)
		if t.Lang != "" {
			return id + "@" + t.Lang
		}
		if t.Datatype != "" {
			return id + "^^" + t.Datatype
		}
		return id
	default:
		return ""
	}
}

// String returns a readable N-Triples-like form of the term. Literals
// use Go quoting.
func (t Term) String() string {
	switch t.Kind {
	case TermIRI:
		return "<" + t.Value + ">"
	case TermBlankNode:
		return "_:" + t.Value
	case TermLiteral:
		s := strconv.Quote(t.Value)
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return ""
	}
}

// Quad is a (subject, predicate, object, graph) fact.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Prefix returns a function that builds named nodes under base.
//
//	s := rdf.Prefix("https://schema.org/")
//	s("Recipe") // <https://schema.org/Recipe>
func Prefix(base string) func(local string) Term {
	return func(local string) Term {
		return NamedNode(base + local)
	}
}
