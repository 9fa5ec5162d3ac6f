package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/semrecipe/rdf"
)

// localName is what may follow "prefix:" without escaping.
var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// TurtleWriter writes quads as Turtle, grouping objects under their
// subject and predicate in the order they were added.
type TurtleWriter struct {
	prefixes map[string]string
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{prefixes: defaultPrefixes()}
}

// defaultPrefixes returns the namespace prefixes recipe pages use.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"s":   "https://schema.org/",
		"xsd": "http://www.w3.org/2001/XMLSchema#",
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

type predicateGroup struct {
	predicate rdf.Term
	objects   []rdf.Term
}

type subjectGroup struct {
	subject    rdf.Term
	predicates []*predicateGroup
}

type graphGroup struct {
	graph    rdf.Term
	subjects []*subjectGroup
}

// Write serializes quads to out. Default graph statements come first;
// each named graph follows as a TriG block.
func (w *TurtleWriter) Write(out io.Writer, quads []rdf.Quad) error {
	bw := bufio.NewWriter(out)
	w.writePrefixes(bw)

	for _, g := range group(quads) {
		indent := ""
		if !g.graph.IsDefaultGraph() {
			fmt.Fprintf(bw, "%s {\n", w.term(g.graph))
			indent = "    "
		}
		for _, s := range g.subjects {
			w.writeSubject(bw, indent, s)
		}
		if !g.graph.IsDefaultGraph() {
			bw.WriteString("}\n\n")
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write turtle: %w", err)
	}
	return nil
}

func (w *TurtleWriter) writePrefixes(bw *bufio.Writer) {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	bw.WriteString("\n")
}

func (w *TurtleWriter) writeSubject(bw *bufio.Writer, indent string, s *subjectGroup) {
	bw.WriteString(indent + w.term(s.subject))
	for i, p := range s.predicates {
		if i == 0 {
			bw.WriteString(" ")
		} else {
			bw.WriteString(" ;\n" + indent + "    ")
		}
		bw.WriteString(w.predicate(p.predicate) + " ")
		objects := make([]string, len(p.objects))
		for j, o := range p.objects {
			objects[j] = w.term(o)
		}
		bw.WriteString(strings.Join(objects, ", "))
	}
	bw.WriteString(" .\n\n")
}

func (w *TurtleWriter) predicate(t rdf.Term) string {
	if t.IsNamedNode() && t.Value == rdf.RDFType {
		return "a"
	}
	return w.term(t)
}

func (w *TurtleWriter) term(t rdf.Term) string {
	switch t.Kind {
	case rdf.TermIRI:
		return w.iri(t.Value)
	case rdf.TermLiteral:
		s := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^" + w.iri(t.Datatype)
		}
		return s
	default:
		return ntTerm(t)
	}
}

// iri compacts to prefix:local when a prefix matches the longest
// namespace and the remainder is a plain name.
func (w *TurtleWriter) iri(v string) string {
	best, bestNS := "", ""
	for prefix, ns := range w.prefixes {
		if strings.HasPrefix(v, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS != "" {
		if local := v[len(bestNS):]; localName.MatchString(local) {
			return best + ":" + local
		}
	}
	return "<" + escapeIRI(v) + ">"
}

// group arranges quads by graph, subject and predicate, each in order of
// first appearance, with the default graph first.
func group(quads []rdf.Quad) []*graphGroup {
	var graphs []*graphGroup
	graphIdx := make(map[string]*graphGroup)
	subjectIdx := make(map[string]*subjectGroup)
	predicateIdx := make(map[string]*predicateGroup)
	seen := make(map[string]bool, len(quads))

	for _, q := range quads {
		gKey := q.Graph.ID()
		g, ok := graphIdx[gKey]
		if !ok {
			g = &graphGroup{graph: q.Graph}
			graphIdx[gKey] = g
			graphs = append(graphs, g)
		}

		sKey := gKey + " " + q.Subject.ID()
		s, ok := subjectIdx[sKey]
		if !ok {
			s = &subjectGroup{subject: q.Subject}
			subjectIdx[sKey] = s
			g.subjects = append(g.subjects, s)
		}

		pKey := sKey + " " + q.Predicate.ID()
		p, ok := predicateIdx[pKey]
		if !ok {
			p = &predicateGroup{predicate: q.Predicate}
			predicateIdx[pKey] = p
			s.predicates = append(s.predicates, p)
		}

		oKey := pKey + " " + q.Object.ID()
		if seen[oKey] {
			continue
		}
		seen[oKey] = true
		p.objects = append(p.objects, q.Object)
	}

	sort.SliceStable(graphs, func(i, j int) bool {
		return graphs[i].graph.IsDefaultGraph() && !graphs[j].graph.IsDefaultGraph()
	})
	return graphs
}
