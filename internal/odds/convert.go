// Package odds converts between American odds, decimal odds and implied probability.
package odds

import "math"

// MinAmericanMagnitude is the smallest absolute American price accepted
const MinAmericanMagnitude = 100

// ValidateAmerican checks the American odds convention (|odds| >= 100)
func ValidateAmerican(american int) error {
	if american == 0 {
		return NewInvalidOddsError(0, "american odds cannot be zero")
	}
	if american > -MinAmericanMagnitude && american < MinAmericanMagnitude {
		return NewInvalidOddsError(float64(american), "american odds magnitude must be at least 100")
	}
	return nil
}

// AmericanToDecimal converts American odds to decimal odds
// +130 → 2.30, -150 → 1.6667
func AmericanToDecimal(american int) (float64, error) {
	if err := ValidateAmerican(american); err != nil {
		return 0, err
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/math.Abs(float64(american)) + 1.0, nil
}

// DecimalToImpliedProbability converts decimal odds to implied probability
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if math.IsNaN(decimal) || decimal <= 1.0 {
		return 0, NewInvalidOddsError(decimal, "decimal odds must be greater than 1.0")
	}
	return 1.0 / decimal, nil
}

// ImpliedProbability converts American odds to the probability the price encodes,
// ignoring the bookmaker margin. -150 → 0.6, +150 → 0.4
func ImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return DecimalToImpliedProbability(decimal)
}

// DecimalToAmerican converts decimal odds back to the nearest American price
func DecimalToAmerican(decimal float64) (int, error) {
	if math.IsNaN(decimal) || decimal <= 1.0 {
		return 0, NewInvalidOddsError(decimal, "decimal odds must be greater than 1.0")
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}
