package dereference

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// markupRe spots literal values that carry HTML rather than plain text.
var markupRe = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>|&(#[0-9]+|#x[0-9a-fA-F]+|[a-zA-Z]+);`)

// MarkupNormalizer rewrites HTML found inside literal values, which some
// sites put in instruction text, as plain Markdown.
type MarkupNormalizer struct {
	converter *md.Converter
}

// NewMarkupNormalizer creates a normalizer.
func NewMarkupNormalizer() *MarkupNormalizer {
	return &MarkupNormalizer{converter: md.NewConverter("", true, nil)}
}

// Normalize returns s unchanged unless it contains tags or entities, in
// which case it returns the trimmed Markdown rendering. Conversion
// failures also leave s unchanged.
func (m *MarkupNormalizer) Normalize(s string) string {
	if !markupRe.MatchString(s) {
		return s
	}
	out, err := m.converter.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}
