package units

import (
	"strconv"
	"strings"
)

var vulgarFractions = map[rune]float64{
	'½': 1. / 2,
	'⅓': 1. / 3, '⅔': 2. / 3,
	'¼': 1. / 4, '¾': 3. / 4,
	'⅕': 1. / 5, '⅖': 2. / 5, '⅗': 3. / 5, '⅘': 4. / 5,
	'⅙': 1. / 6, '⅚': 5. / 6,
	'⅐': 1. / 7,
	'⅛': 1. / 8, '⅜': 3. / 8, '⅝': 5. / 8, '⅞': 7. / 8,
	'⅑': 1. / 9,
	'⅒': 1. / 10,
}

// ParseQuantity reads the quantity text of an ingredient: whole numbers,
// decimals, fractions ("1/2"), mixed numbers ("1 1/2"), and vulgar
// fraction characters ("½", "1½"). Ranges such as "3-4" and anything else
// report false.
func ParseQuantity(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "⁄", "/")
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return parseTerm(fields[0])
	case 2:
		whole, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return 0, false
		}
		frac, ok := parseFraction(fields[1])
		if !ok || frac >= 1 {
			return 0, false
		}
		return float64(whole) + frac, true
	default:
		return 0, false
	}
}

// parseTerm reads a single token: a decimal, a fraction, or a whole
// number with a trailing vulgar fraction.
func parseTerm(tok string) (float64, bool) {
	if f, ok := parseFraction(tok); ok {
		return f, true
	}
	runes := []rune(tok)
	if frac, ok := vulgarFractions[runes[len(runes)-1]]; ok && len(runes) > 1 {
		whole, err := strconv.ParseUint(string(runes[:len(runes)-1]), 10, 32)
		if err != nil {
			return 0, false
		}
		return float64(whole) + frac, true
	}
	return parseDecimal(tok)
}

// parseFraction reads "a/b" or a lone vulgar fraction.
func parseFraction(tok string) (float64, bool) {
	runes := []rune(tok)
	if len(runes) == 1 {
		if frac, ok := vulgarFractions[runes[0]]; ok {
			return frac, true
		}
	}
	num, den, found := strings.Cut(tok, "/")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseUint(den, 10, 32)
	if err != nil || d == 0 {
		return 0, false
	}
	return float64(n) / float64(d), true
}

// parseDecimal accepts digits with at most one decimal point. ParseFloat
// alone would also take "Inf", "1e3", and hex floats.
func parseDecimal(tok string) (float64, bool) {
	dot := false
	digits := 0
	for _, r := range tok {
		switch {
		case r == '.' && !dot:
			dot = true
		case r >= '0' && r <= '9':
			digits++
		default:
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatQuantity writes n back as ingredient quantity text, using the
// same number formatting as the abbreviated unit templates.
func FormatQuantity(n float64) string {
	return formatNumber(n, 0)
}
