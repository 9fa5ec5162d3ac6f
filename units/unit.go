package units

// System is a measurement system.
type System string

// Measurement systems. "US" rather than "imperial" because US liquid
// measures differ from imperial ones.
const (
	US     System = "US"
	Metric System = "metric"
)

// Dimension is the physical quantity a unit measures.
type Dimension string

// Dimensions.
const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
)

// Length selects between a unit's long and abbreviated rendering.
type Length int

// Render lengths.
const (
	Long Length = iota
	Abbrev
)

// String returns "long" or "abbrev".
func (l Length) String() string {
	if l == Long {
		return "long"
	}
	return "abbrev"
}

// ParseLength parses "long" or "abbrev".
func ParseLength(s string) (Length, bool) {
	switch s {
	case "long":
		return Long, true
	case "abbrev", "abbreviation", "short":
		return Abbrev, true
	}
	return Abbrev, false
}

// Amount is a number of some unit.
type Amount struct {
	Num  float64
	Unit *Unit
}

// Unit is an entry of the unit registry. Units are created at package
// initialization and never modified.
type Unit struct {
	name      string
	system    System
	dimension Dimension
	long      template
	abbrev    template
	synonyms  []string

	// amountForOne is the amount of the base unit of the same system and
	// dimension in one of this unit. Nil for base units.
	amountForOne *Amount

	// min and max bound the amounts that read naturally in this unit.
	// Outside them, Scale looks for a better unit.
	min, max       float64
	hasMin, hasMax bool
}

// Name returns the canonical short name, such as "tsp" or "C".
func (u *Unit) Name() string { return u.name }

// String returns the canonical short name.
func (u *Unit) String() string { return u.name }

// System returns the unit's measurement system.
func (u *Unit) System() System { return u.system }

// Dimension returns the quantity the unit measures.
func (u *Unit) Dimension() Dimension { return u.dimension }

// Synonyms returns the names the unit is known by.
func (u *Unit) Synonyms() []string {
	out := make([]string, len(u.synonyms))
	copy(out, u.synonyms)
	return out
}

// AmountForOne returns the base-unit amount in one of u. It reports false
// for base units.
func (u *Unit) AmountForOne() (Amount, bool) {
	if u.amountForOne == nil {
		return Amount{}, false
	}
	return *u.amountForOne, true
}

// IsBase reports whether u is the base unit of its system and dimension.
func (u *Unit) IsBase() bool { return u.amountForOne == nil }

// Min returns the smallest natural amount of u, if bounded.
func (u *Unit) Min() (float64, bool) { return u.min, u.hasMin }

// Max returns the largest natural amount of u, if bounded.
func (u *Unit) Max() (float64, bool) { return u.max, u.hasMax }

// Base returns the base unit u resolves to and how many of it make one u.
func (u *Unit) Base() (*Unit, float64) {
	factor := 1.0
	cur := u
	for cur.amountForOne != nil {
		factor *= cur.amountForOne.Num
		cur = cur.amountForOne.Unit
	}
	return cur, factor
}

func (u *Unit) inRange(n float64) bool {
	if u.hasMin && n < u.min {
		return false
	}
	if u.hasMax && n > u.max {
		return false
	}
	return true
}
