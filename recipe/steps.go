package recipe

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/semrecipe/rdf"
)

// step is an instruction with an optional explicit position.
type step struct {
	position    int
	hasPosition bool
	text        string
}

// OrderSteps turns recipeInstructions values into instruction text. A
// literal is used as is. A HowToStep node contributes its text property
// and is dropped when it has none. Steps without a position come first
// in their given order, followed by positioned steps in ascending
// position; the sort is stable.
//
// HowToSection nodes have no text of their own and are dropped.
func OrderSteps(subjects []rdf.Subject) []string {
	steps := make([]step, 0, len(subjects))
	for _, s := range subjects {
		if st, ok := parseStep(s); ok {
			steps = append(steps, st)
		}
	}

	sort.SliceStable(steps, func(i, j int) bool {
		a, b := steps[i], steps[j]
		if !a.hasPosition {
			return b.hasPosition
		}
		if !b.hasPosition {
			return false
		}
		return a.position < b.position
	})

	out := make([]string, len(steps))
	for i, st := range steps {
		out[i] = st.text
	}
	return out
}

func parseStep(s rdf.Subject) (step, bool) {
	if text, ok := s.Value(); ok {
		return step{text: text}, true
	}

	texts := s.Get(schema("text"))
	if len(texts) == 0 {
		return step{}, false
	}
	text, ok := texts[0].Value()
	if !ok {
		return step{}, false
	}

	st := step{text: text}
	if positions := s.Get(schema("position")); len(positions) > 0 {
		if v, ok := positions[0].Value(); ok {
			st.position, st.hasPosition = parseLeadingInt(v)
		}
	}
	return st, true
}

// parseLeadingInt reads the integer at the start of s, ignoring leading
// white space and anything after the digits, so "3", " 3.", and "3rd"
// are all 3. A "0x" prefix switches to hexadecimal and must be followed
// by a hex digit. It reports false when no digits are found.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		// Too many digits. Clamp like a float would saturate.
		n = math.MaxInt64
	}
	if neg {
		n = -n
	}
	return int(n), true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}
