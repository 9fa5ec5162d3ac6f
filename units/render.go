package units

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unit names are en-US only for now.
var printer = message.NewPrinter(language.AmericanEnglish)

// template renders a formatted number into unit text. one and other are
// fmt patterns taking the number as their only %s operand.
type template struct {
	one, other string

	// exactOne picks the singular only when the amount is exactly 1.
	// Otherwise the singular follows the English plural rule, which looks
	// at the formatted number.
	exactOne bool

	// significant limits the number to that many significant digits. Zero
	// means up to three fraction digits.
	significant int
}

// measure is a full unit name with at most two significant digits.
func measure(one, other string) template {
	return template{one: "%s " + one, other: "%s " + other, significant: 2}
}

// narrow is a symbol glued to a number with at most two significant digits.
func narrow(pattern string) template {
	return template{one: pattern, other: pattern, significant: 2}
}

// plural is a spelled-out name that is singular only for exactly 1.
func plural(one, other string) template {
	return template{one: "%s " + one, other: "%s " + other, exactOne: true}
}

// plain is a fixed pattern around a default-formatted number.
func plain(pattern string) template {
	return template{one: pattern, other: pattern}
}

func (t template) render(num float64) string {
	digits := formatNumber(num, t.significant)
	pattern := t.other
	if t.exactOne && num == 1 || !t.exactOne && digits == "1" {
		pattern = t.one
	}
	return fmt.Sprintf(pattern, digits)
}

// formatNumber formats n for en-US with grouping separators.
func formatNumber(n float64, significant int) string {
	if significant <= 0 {
		return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
	}
	rounded, fraction := roundSignificant(n, significant)
	return printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(fraction)))
}

// roundSignificant rounds n half-to-even to the given number of
// significant digits and returns how many fraction digits remain.
func roundSignificant(n float64, significant int) (float64, int) {
	if n == 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return n, 0
	}
	magnitude := int(math.Floor(math.Log10(math.Abs(n))))
	fraction := significant - 1 - magnitude
	scale := math.Pow10(fraction)
	rounded := math.RoundToEven(n*scale) / scale
	if fraction < 0 {
		fraction = 0
	}
	return rounded, fraction
}

// FormatError reports a unit template that did not produce text. It means
// the registry itself is broken, not that the input was bad.
type FormatError struct {
	Amount Amount
	Length Length
	Result string
}

func (e *FormatError) Error() string {
	name := "<nil>"
	if e.Amount.Unit != nil {
		name = e.Amount.Unit.name
	}
	return fmt.Sprintf("units: %s template for %s failed on %v: %q", e.Length, name, e.Amount.Num, e.Result)
}

// Format renders a as text in the requested length, for example
// "2 teaspoons" or "250g".
func Format(a Amount, length Length) (string, error) {
	if a.Unit == nil {
		return "", &FormatError{Amount: a, Length: length}
	}
	t := a.Unit.long
	if length == Abbrev {
		t = a.Unit.abbrev
	}
	out := t.render(a.Num)
	if out == "" || strings.Contains(out, "%!") {
		return "", &FormatError{Amount: a, Length: length, Result: out}
	}
	return out, nil
}

// Render is Format for callers holding registry units. It panics with a
// *FormatError if the unit's template is malformed.
func Render(a Amount, length Length) string {
	out, err := Format(a, length)
	if err != nil {
		panic(err)
	}
	return out
}
