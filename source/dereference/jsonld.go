package dereference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/semrecipe/rdf"
)

// Datatypes assigned to native JSON values.
const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	rdfJSON    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON"
)

// ErrRemoteContext is returned for JSON-LD that references a context other
// than schema.org. Contexts are never fetched.
var ErrRemoteContext = errors.New("remote JSON-LD context not allowed")

// schemaContext is served in place of https://schema.org's context
// document. Every term maps into the schema.org vocabulary.
var schemaContext = map[string]any{
	"@context": map[string]any{
		"@vocab": "https://schema.org/",
	},
}

// offlineLoader resolves the schema.org context locally and refuses
// everything else.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteContext, u)
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host != "schema.org" {
		return nil, fmt.Errorf("%w: %s", ErrRemoteContext, u)
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: schemaContext}, nil
}

// expandJSONLD expands one JSON-LD document against base.
func expandJSONLD(data []byte, base string) ([]any, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decode JSON-LD: %w", err)
	}

	opts := ld.NewJsonLdOptions(base)
	opts.DocumentLoader = offlineLoader{}

	expanded, err := ld.NewJsonLdProcessor().Expand(input, opts)
	if err != nil {
		return nil, fmt.Errorf("expand JSON-LD: %w", err)
	}
	return expanded, nil
}

// walker turns expanded JSON-LD into quads. Nodes are visited depth first
// and arrays in order, so quads come out in the order the markup lists
// them.
type walker struct {
	emit   func(rdf.Quad) error
	labels *labeler
	text   func(string) string
}

// labeler issues blank node labels that are unique across every block of
// a page. Labels written in the markup are only meaningful inside the
// block that uses them.
type labeler struct {
	next  int
	scope map[string]string
}

func newLabeler() *labeler {
	return &labeler{scope: make(map[string]string)}
}

// reset starts a new block.
func (l *labeler) reset() {
	l.scope = make(map[string]string)
}

func (l *labeler) fresh() rdf.Term {
	t := rdf.BlankNode("b" + strconv.Itoa(l.next))
	l.next++
	return t
}

func (l *labeler) named(label string) rdf.Term {
	if label != "" {
		if name, ok := l.scope[label]; ok {
			return rdf.BlankNode(name)
		}
	}
	t := l.fresh()
	if label != "" {
		l.scope[label] = t.Value
	}
	return t
}

// walk emits every top-level node of an expanded document.
func (w *walker) walk(expanded []any) error {
	for _, item := range expanded {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, err := w.node(node, rdf.DefaultGraph); err != nil {
			return err
		}
	}
	return nil
}

// node emits the statements of a node object and returns its subject.
func (w *walker) node(n map[string]any, graph rdf.Term) (rdf.Term, error) {
	subject := w.identify(n)
	return subject, w.describe(n, subject, graph)
}

// identify returns the subject term for a node object.
func (w *walker) identify(n map[string]any) rdf.Term {
	id, _ := n["@id"].(string)
	if id == "" {
		return w.labels.fresh()
	}
	if strings.HasPrefix(id, "_:") {
		return w.labels.named(id)
	}
	return iri(id)
}

func (w *walker) describe(n map[string]any, subject, graph rdf.Term) error {
	for _, t := range asSlice(n["@type"]) {
		typ, ok := t.(string)
		if !ok {
			continue
		}
		var object rdf.Term
		if strings.HasPrefix(typ, "_:") {
			object = w.labels.named(typ)
		} else {
			object = iri(typ)
		}
		if err := w.emit(quad(subject, rdf.NamedNode(rdf.RDFType), object, graph)); err != nil {
			return err
		}
	}

	// Expanded properties are unordered; sort them so output is stable.
	keys := make([]string, 0, len(n))
	for k := range n {
		if !strings.HasPrefix(k, "@") && !strings.HasPrefix(k, "_:") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		predicate := iri(k)
		for _, v := range asSlice(n[k]) {
			if err := w.value(subject, predicate, v, graph); err != nil {
				return err
			}
		}
	}

	if reverse, ok := n["@reverse"].(map[string]any); ok {
		if err := w.reverse(reverse, subject, graph); err != nil {
			return err
		}
	}

	if inner, ok := n["@graph"]; ok {
		for _, item := range asSlice(inner) {
			if m, ok := item.(map[string]any); ok {
				if _, err := w.node(m, subject); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *walker) reverse(props map[string]any, subject, graph rdf.Term) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		predicate := iri(k)
		for _, v := range asSlice(props[k]) {
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			other := w.identify(m)
			if err := w.emit(quad(other, predicate, subject, graph)); err != nil {
				return err
			}
			if err := w.describe(m, other, graph); err != nil {
				return err
			}
		}
	}
	return nil
}

// value emits one property value: a literal, a nested node, or each
// member of a list.
func (w *walker) value(subject, predicate rdf.Term, v any, graph rdf.Term) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	if list, ok := m["@list"]; ok {
		for _, item := range asSlice(list) {
			if err := w.value(subject, predicate, item, graph); err != nil {
				return err
			}
		}
		return nil
	}

	if raw, ok := m["@value"]; ok {
		lit, ok := w.literal(raw, m)
		if !ok {
			return nil
		}
		return w.emit(quad(subject, predicate, lit, graph))
	}

	object := w.identify(m)
	if err := w.emit(quad(subject, predicate, object, graph)); err != nil {
		return err
	}
	return w.describe(m, object, graph)
}

// literal converts a value object following the JSON-LD to RDF rules for
// native numbers and booleans.
func (w *walker) literal(raw any, m map[string]any) (rdf.Term, bool) {
	datatype, _ := m["@type"].(string)
	lang, _ := m["@language"].(string)

	if datatype == "@json" {
		data, err := json.Marshal(raw)
		if err != nil {
			return rdf.Term{}, false
		}
		return rdf.TypedLiteral(string(data), rdfJSON), true
	}

	switch v := raw.(type) {
	case string:
		if w.text != nil {
			v = w.text(v)
		}
		if lang != "" {
			return rdf.LangLiteral(v, lang), true
		}
		return rdf.TypedLiteral(v, datatype), true
	case bool:
		if datatype == "" {
			datatype = xsdBoolean
		}
		return rdf.TypedLiteral(strconv.FormatBool(v), datatype), true
	case float64:
		integral := v == math.Trunc(v) && math.Abs(v) < 1e21
		if datatype == xsdDouble || !integral {
			if datatype == "" {
				datatype = xsdDouble
			}
			return rdf.TypedLiteral(canonicalDouble(v), datatype), true
		}
		if datatype == "" {
			datatype = xsdInteger
		}
		return rdf.TypedLiteral(strconv.FormatFloat(v, 'f', 0, 64), datatype), true
	default:
		return rdf.Term{}, false
	}
}

// canonicalDouble writes v in the xsd:double canonical form, such as
// "2.5E0" or "1.0E21".
func canonicalDouble(v float64) string {
	if math.IsInf(v, 1) {
		return "INF"
	}
	if math.IsInf(v, -1) {
		return "-INF"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

func asSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func quad(s, p, o, g rdf.Term) rdf.Quad {
	return rdf.Quad{Subject: s, Predicate: p, Object: o, Graph: g}
}

// iri builds a named node, moving schema.org terms to https.
func iri(s string) rdf.Term {
	return rdf.NamedNode(RewriteSchema(s))
}

// RewriteSchema moves an http://schema.org/ IRI into the https namespace
// recipes are read from.
func RewriteSchema(s string) string {
	if strings.HasPrefix(s, "http://schema.org/") {
		return "https://" + strings.TrimPrefix(s, "http://")
	}
	return s
}
