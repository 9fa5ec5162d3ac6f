package units

// Scale multiplies a by multiple. The unit is kept while the result stays
// within its natural range. Otherwise the amount is converted through the
// base unit into the first preferred unit of the same system and dimension
// whose minimum it meets, falling back to the smallest preferred unit.
//
// Scaling never changes the system or dimension of an amount.
func Scale(a Amount, multiple float64) Amount {
	result := a.Num * multiple
	if a.Unit == nil || a.Unit.inRange(result) {
		return Amount{Num: result, Unit: a.Unit}
	}

	_, factor := a.Unit.Base()
	base := result * factor

	best := Amount{Num: result, Unit: a.Unit}
	for _, candidate := range preferences[systemDimension{a.Unit.system, a.Unit.dimension}] {
		_, f := candidate.Base()
		best = Amount{Num: base / f, Unit: candidate}
		if !candidate.hasMin || best.Num >= candidate.min {
			break
		}
	}
	return best
}

// Convert expresses a in target, which must share its system and
// dimension. It reports false when it does not.
func Convert(a Amount, target *Unit) (Amount, bool) {
	if a.Unit == nil || target == nil {
		return Amount{}, false
	}
	if a.Unit.system != target.system || a.Unit.dimension != target.dimension {
		return Amount{}, false
	}
	_, from := a.Unit.Base()
	_, to := target.Base()
	return Amount{Num: a.Num * from / to, Unit: target}, true
}
