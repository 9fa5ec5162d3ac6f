// Package export serializes the quads read from a page, for inspecting
// what a site publishes and why a recipe did or did not come out of it.
package export

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/c360studio/semrecipe/rdf"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output. Named graphs are written
	// as TriG blocks.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output. Graph names are
	// dropped.
	FormatNTriples Format = "ntriples"

	// FormatNQuads produces N-Quads (.nq) output.
	FormatNQuads Format = "nquads"

	// FormatJSONLD produces JSON-LD (.jsonld) output compacted against
	// schema.org.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatNQuads: {
		Name:        FormatNQuads,
		MIMEType:    "application/n-quads",
		Extension:   ".nq",
		Description: "N-Quads - N-Triples with graph names",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat accepts a format name ("turtle") or its MIME type
// ("text/turtle; charset=utf-8").
func ParseFormat(s string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if _, ok := FormatRegistry[Format(name)]; ok {
		return Format(name), true
	}
	if mediaType, _, err := mime.ParseMediaType(name); err == nil {
		name = mediaType
	}
	for format, info := range FormatRegistry {
		if info.MIMEType == name {
			return format, true
		}
	}
	return "", false
}

// WriteStore serializes every quad in store to w.
func WriteStore(w io.Writer, store *rdf.Store, format Format) error {
	quads := store.Quads()
	switch format {
	case FormatTurtle:
		return NewTurtleWriter().Write(w, quads)
	case FormatNTriples:
		return writeLines(w, quads, false)
	case FormatNQuads:
		return writeLines(w, quads, true)
	case FormatJSONLD:
		return writeJSONLD(w, quads)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
