package odds

// RemoveVig strips the overround from a two-way market using the
// multiplicative method. The returned probabilities sum to 1.0.
func RemoveVig(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}
	total := impliedA + impliedB
	return impliedA / total, impliedB / total
}

// RemoveVigFromAmerican converts both sides of a moneyline to fair probabilities
func RemoveVigFromAmerican(americanA, americanB int) (float64, float64, error) {
	impliedA, err := ImpliedProbability(americanA)
	if err != nil {
		return 0, 0, err
	}
	impliedB, err := ImpliedProbability(americanB)
	if err != nil {
		return 0, 0, err
	}
	fairA, fairB := RemoveVig(impliedA, impliedB)
	return fairA, fairB, nil
}

// Overround returns the bookmaker margin of a two-way market (0.0476 for -110/-110)
func Overround(impliedA, impliedB float64) float64 {
	return impliedA + impliedB - 1.0
}
