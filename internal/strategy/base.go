package strategy

import (
	"math"

	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/odds"
)

const (
	// MinProbability and MaxProbability bound probabilities before a logit
	MinProbability = 0.0001
	MaxProbability = 0.9999

	// DefaultPrice is assumed for spread and totals sides quoted without a price
	DefaultPrice = -110
	// DefaultSpreadStdev is the spread edge, in rating points, of one standard deviation
	DefaultSpreadStdev = 340.0
	// DefaultTotalsStdev is the totals edge, in points, of one standard deviation
	DefaultTotalsStdev = 10.0
)

// BaseStrategy holds the staking parameters shared by strategies
type BaseStrategy struct {
	Bankroll        float64
	FractionalKelly float64
	SpreadStdev     float64
	TotalsStdev     float64
	DefaultPrice    int
}

// ClampProbability bounds p to [MinProbability, MaxProbability]
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return MinProbability
	}
	return math.Min(math.Max(p, MinProbability), MaxProbability)
}

func logit(p float64) float64 {
	p = ClampProbability(p)
	return math.Log(p / (1 - p))
}

// PredictedMargin is the log-odds difference between the home and away win
// probabilities implied by their ratings. Used for moneyline picks.
func PredictedMargin(ratingHome, ratingAway float64) float64 {
	p := elo.ExpectedScore(ratingHome, ratingAway)
	q := elo.ExpectedScore(ratingAway, ratingHome)
	return logit(p) - logit(q)
}

// RatingMargin is the raw rating difference. Used for spread picks.
func RatingMargin(ratingHome, ratingAway float64) float64 {
	return ratingHome - ratingAway
}

// MoneylineEdge is the model probability less the price's implied probability
func MoneylineEdge(modelProb float64, american int) (float64, error) {
	implied, err := odds.ImpliedProbability(american)
	if err != nil {
		return 0, err
	}
	return modelProb - implied, nil
}

// SpreadEdge is the home-side spread edge. The away side is
// SpreadEdge(-margin, awaySpread).
func SpreadEdge(margin, spread float64) float64 {
	return margin - spread
}

// KellyFraction returns the full-Kelly fraction of bankroll for a back bet at
// decimalOdds with win probability p. Never negative.
func KellyFraction(decimalOdds, p float64) float64 {
	b := decimalOdds - 1.0
	if b <= 0 || math.IsNaN(b) {
		return 0
	}
	q := 1.0 - p
	f := (b*p - q) / b
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// Stake sizes a bet as bankroll * multiplier * max(0, kelly)
func Stake(bankroll, multiplier, kelly float64) float64 {
	s := bankroll * multiplier * math.Max(0, kelly)
	if s < 0 || math.IsNaN(s) {
		return 0
	}
	return s
}

// NormalCDF is the standard normal cumulative distribution function
func NormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// CoverProbability turns an edge in points into the probability of beating
// the line, treating the result as normally distributed around the model.
func CoverProbability(edge, stdev float64) float64 {
	if stdev <= 0 {
		if edge > 0 {
			return 1
		}
		if edge < 0 {
			return 0
		}
		return 0.5
	}
	return NormalCDF(edge / stdev)
}

// ApplyKelly returns the Kelly fraction and the fractional stake for a price
func (b *BaseStrategy) ApplyKelly(american int, p float64) (float64, float64, error) {
	decimalOdds, err := odds.AmericanToDecimal(american)
	if err != nil {
		return 0, 0, err
	}
	kelly := KellyFraction(decimalOdds, p)
	return kelly, Stake(b.Bankroll, b.FractionalKelly, kelly), nil
}

func (b *BaseStrategy) priceOrDefault(price *int) int {
	if price != nil {
		return *price
	}
	if b.DefaultPrice != 0 {
		return b.DefaultPrice
	}
	return DefaultPrice
}

func (b *BaseStrategy) spreadStdev() float64 {
	if b.SpreadStdev > 0 {
		return b.SpreadStdev
	}
	return DefaultSpreadStdev
}

func (b *BaseStrategy) totalsStdev() float64 {
	if b.TotalsStdev > 0 {
		return b.TotalsStdev
	}
	return DefaultTotalsStdev
}
