package recipe

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/c360studio/semrecipe/rdf"
)

// spaceClass counts NBSP and BOM as space. lineRunClass stops at any line
// terminator, \r and U+2028 included.
const (
	spaceClass   = `[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]`
	lineRunClass = `[^\n\r\x{2028}\x{2029}]`
)

var (
	// ingredientPattern splits a free-text ingredient line. The quantity is
	// a leading run of punctuation, symbols, numbers and spaces; whatever
	// follows the first comma is the preparation.
	ingredientPattern = regexp.MustCompile(`^(?P<quantity>(?:\p{P}|\p{S}|\p{N}|\p{Zs})+)?(?P<unitAndName>[^,]+)(?:,(?P<detail>` + lineRunClass + `*))?$`)

	// unitPattern takes the first word of the remainder as the unit when
	// more words follow.
	unitPattern = regexp.MustCompile(`^(?P<unit>\P{Zs}+)\p{Zs}+`)

	// namePattern splits a structured ingredient name at its first comma.
	namePattern = regexp.MustCompile(`^(?P<name>[^,]+)(?:,(?P<preparation>` + lineRunClass + `*))?$`)
)

var (
	ingredientQuantity    = ingredientPattern.SubexpIndex("quantity")
	ingredientUnitAndName = ingredientPattern.SubexpIndex("unitAndName")
	ingredientDetail      = ingredientPattern.SubexpIndex("detail")
	unitGroup             = unitPattern.SubexpIndex("unit")
	nameGroup             = namePattern.SubexpIndex("name")
	preparationGroup      = namePattern.SubexpIndex("preparation")
)

// ParseIngredient reads one recipeIngredient value. A literal is split
// with the free-text grammar; a node is read from its name and
// requiredQuantity properties. It reports false when no name can be
// found.
//
// The unit is whatever word precedes the name. It is not checked against
// the unit registry.
func ParseIngredient(s rdf.Subject) (Ingredient, bool) {
	if text, ok := s.Value(); ok {
		return ParseIngredientText(text)
	}
	return parseIngredientNode(s)
}

// ParseIngredientText splits a free-text ingredient line such as
// "1 cup flour, sifted".
func ParseIngredientText(text string) (Ingredient, bool) {
	m := ingredientPattern.FindStringSubmatch(text)
	if m == nil {
		return Ingredient{}, false
	}
	unitAndName := trimSpace(m[ingredientUnitAndName])
	if unitAndName == "" {
		return Ingredient{}, false
	}

	ing := Ingredient{
		Quantity:    trimSpace(m[ingredientQuantity]),
		Name:        unitAndName,
		Preparation: trimSpace(m[ingredientDetail]),
	}
	if um := unitPattern.FindStringSubmatch(unitAndName); um != nil {
		ing.Unit = um[unitGroup]
		ing.Name = unitAndName[len(um[0]):]
	}
	return ing, true
}

func parseIngredientNode(s rdf.Subject) (Ingredient, bool) {
	names := s.Get(schema("name"))
	if len(names) == 0 {
		return Ingredient{}, false
	}
	full, ok := names[0].Value()
	if !ok {
		return Ingredient{}, false
	}
	m := namePattern.FindStringSubmatch(full)
	if m == nil {
		return Ingredient{}, false
	}
	// A name of only spaces still counts as present; it trims to "".
	ing := Ingredient{
		Name:        trimSpace(m[nameGroup]),
		Preparation: trimSpace(m[preparationGroup]),
	}

	if q := s.Get(schema("requiredQuantity")); len(q) > 0 {
		ing.Quantity = trimSpace(firstLiteral(q[0].Get(schema("value"))))
		ing.Unit = trimSpace(firstLiteral(q[0].Get(schema("unitText"))))
	}
	return ing, true
}

// firstLiteral returns the value of the first object if it is a literal.
// A leading non-literal hides any literals after it.
func firstLiteral(objects []rdf.Subject) string {
	if len(objects) == 0 {
		return ""
	}
	v, _ := objects[0].Value()
	return v
}

// isSpace reports whether r is matched by spaceClass.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// trimSpace trims the characters in spaceClass from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
