package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/semrecipe/rdf"
)

// writeLines writes one quad per line. Without graphs, quads that differ
// only in graph collapse to one triple.
func writeLines(w io.Writer, quads []rdf.Quad, withGraph bool) error {
	bw := bufio.NewWriter(w)
	seen := make(map[string]bool, len(quads))
	for _, q := range quads {
		line := ntTerm(q.Subject) + " " + ntTerm(q.Predicate) + " " + ntTerm(q.Object)
		if withGraph && !q.Graph.IsDefaultGraph() {
			line += " " + ntTerm(q.Graph)
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		if _, err := bw.WriteString(line + " .\n"); err != nil {
			return fmt.Errorf("write quad: %w", err)
		}
	}
	return bw.Flush()
}

// ntTerm formats a term in N-Triples syntax.
func ntTerm(t rdf.Term) string {
	switch t.Kind {
	case rdf.TermIRI:
		return "<" + escapeIRI(t.Value) + ">"
	case rdf.TermBlankNode:
		return "_:" + t.Value
	case rdf.TermLiteral:
		s := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + escapeIRI(t.Datatype) + ">"
		}
		return s
	default:
		return ""
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeIRI escapes the characters an IRIREF may not contain.
func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") && !hasControl(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasControl(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}
