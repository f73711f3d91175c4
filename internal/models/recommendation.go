package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetType is the market family of a recommendation
type BetType string

const (
	BetTypeMoneyline BetType = "Moneyline"
	BetTypeSpread    BetType = "Spread"
	BetTypeTotals    BetType = "Totals"
)

// Candidate identifies one side of one market for a single game
type Candidate string

const (
	CandidateMLHome     Candidate = "ML Home"
	CandidateMLAway     Candidate = "ML Away"
	CandidateSpreadHome Candidate = "Spread Home"
	CandidateSpreadAway Candidate = "Spread Away"
	CandidateOver       Candidate = "Over"
	CandidateUnder      Candidate = "Under"
)

// CandidateOrder is the fixed enumeration order; earlier entries win edge ties
var CandidateOrder = []Candidate{
	CandidateMLHome,
	CandidateMLAway,
	CandidateSpreadHome,
	CandidateSpreadAway,
	CandidateOver,
	CandidateUnder,
}

// BetType returns the market family of the candidate
func (c Candidate) BetType() BetType {
	switch c {
	case CandidateMLHome, CandidateMLAway:
		return BetTypeMoneyline
	case CandidateSpreadHome, CandidateSpreadAway:
		return BetTypeSpread
	default:
		return BetTypeTotals
	}
}

// IsHome reports whether the candidate backs the home side
func (c Candidate) IsHome() bool {
	return c == CandidateMLHome || c == CandidateSpreadHome
}

// Recommendation is the single best bet found for one game in one evaluation cycle.
// Edge is in the market's own unit: win probability for moneylines, rating
// points for spreads, points for totals. EdgePct is Edge*100.
type Recommendation struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	CycleID            uuid.UUID `db:"cycle_id" json:"cycle_id"`
	EventID            string    `db:"event_id" json:"event_id"`
	Matchup            string    `db:"matchup" json:"matchup" validate:"required"`
	HomeTeam           string    `db:"home_team" json:"home_team"`
	AwayTeam           string    `db:"away_team" json:"away_team"`
	CommenceTime       time.Time `db:"commence_time" json:"commence_time"`
	BetType            BetType   `db:"bet_type" json:"bet_type" validate:"required,oneof=Moneyline Spread Totals"`
	Candidate          Candidate `db:"candidate" json:"candidate"`
	Selection          string    `db:"selection" json:"selection"`
	Opponent           string    `db:"opponent" json:"opponent"`
	AmericanOdds       *int      `db:"american_odds" json:"american_odds,omitempty"`
	Edge               float64   `db:"edge" json:"edge"`
	EdgePct            float64   `db:"edge_pct" json:"edge_pct"`
	ModelProbability   float64   `db:"model_probability" json:"model_probability"`
	KellyFraction      float64   `db:"kelly_fraction" json:"kelly_fraction"`
	Stake              float64   `db:"stake" json:"stake"`
	PredictedMargin    float64   `db:"predicted_margin" json:"predicted_margin"`
	ImpliedProbability *float64  `db:"implied_probability" json:"implied_probability,omitempty"`
	MarketTotal        *float64  `db:"market_total" json:"market_total,omitempty"`
	ModelTotal         *float64  `db:"model_total" json:"model_total,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// StakeAmount returns the stake rounded to cents
func (r *Recommendation) StakeAmount() decimal.Decimal {
	return decimal.NewFromFloat(r.Stake).Round(2)
}

// EdgePercent returns the edge percentage rounded to two places
func (r *Recommendation) EdgePercent() decimal.Decimal {
	return decimal.NewFromFloat(r.EdgePct).Round(2)
}

// MeetsThreshold checks if the edge percentage reaches the given minimum
func (r *Recommendation) MeetsThreshold(minEdgePercent float64) bool {
	return r.EdgePct >= minEdgePercent
}
