package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/semrecipe/rdf"
)

// schemaContext compacts schema.org terms to bare names.
var schemaContext = map[string]any{
	"@context": map[string]any{
		"@vocab": "https://schema.org/",
		"xsd":    "http://www.w3.org/2001/XMLSchema#",
	},
}

// writeJSONLD converts the quads to JSON-LD with json-gold and compacts
// the result against schema.org.
func writeJSONLD(w io.Writer, quads []rdf.Quad) error {
	var nq bytes.Buffer
	if err := writeLines(&nq, quads, true); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	expanded, err := proc.FromRDF(nq.String(), opts)
	if err != nil {
		return fmt.Errorf("convert to JSON-LD: %w", err)
	}
	compacted, err := proc.Compact(expanded, schemaContext, ld.NewJsonLdOptions(""))
	if err != nil {
		return fmt.Errorf("compact JSON-LD: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(compacted); err != nil {
		return fmt.Errorf("write JSON-LD: %w", err)
	}
	return nil
}
