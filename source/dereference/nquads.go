package dereference

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/semrecipe/rdf"
)

// parseNQuads reads N-Quads (or N-Triples) line by line so quads reach
// emit in file order. Blank node labels are scoped to the document.
func parseNQuads(data []byte, labels *labeler, emit func(rdf.Quad) error) error {
	serializer := &ld.NQuadRDFSerializer{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		dataset, err := serializer.Parse(line + "\n")
		if err != nil {
			return fmt.Errorf("parse N-Quads line %d: %w", lineNumber, err)
		}
		for graphName, quads := range dataset.Graphs {
			graph := graphTerm(graphName, labels)
			for _, q := range quads {
				if err := emit(rdf.Quad{
					Subject:   nodeTerm(q.Subject, labels),
					Predicate: nodeTerm(q.Predicate, labels),
					Object:    nodeTerm(q.Object, labels),
					Graph:     graph,
				}); err != nil {
					return err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read N-Quads: %w", err)
	}
	return nil
}

func graphTerm(name string, labels *labeler) rdf.Term {
	switch {
	case name == "" || name == "@default":
		return rdf.DefaultGraph
	case strings.HasPrefix(name, "_:"):
		return labels.named(name)
	default:
		return iri(name)
	}
}

func nodeTerm(n ld.Node, labels *labeler) rdf.Term {
	switch v := n.(type) {
	case *ld.IRI:
		return iri(v.Value)
	case ld.IRI:
		return iri(v.Value)
	case *ld.BlankNode:
		return labels.named(v.GetValue())
	case ld.BlankNode:
		return labels.named(v.GetValue())
	case *ld.Literal:
		return literalTerm(*v)
	case ld.Literal:
		return literalTerm(v)
	case nil:
		return rdf.DefaultGraph
	default:
		return rdf.NamedNode(n.GetValue())
	}
}

func literalTerm(l ld.Literal) rdf.Term {
	if l.Language != "" {
		return rdf.LangLiteral(l.Value, l.Language)
	}
	return rdf.TypedLiteral(l.Value, l.Datatype)
}
