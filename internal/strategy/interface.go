package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Strategy turns one market quote into at most one recommendation
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, strategyCtx Context) (*models.Recommendation, error)
	GetParameters() map[string]interface{}
}

// RatingSource is satisfied by elo.Snapshot
type RatingSource interface {
	Rating(team string) float64
}

// TotalsSource projects a combined score for a game
type TotalsSource interface {
	ExpectedTotal(home, away string) (float64, bool)
}

// Context carries finalized ratings and the quote being evaluated
type Context struct {
	Quote       *models.MarketQuote
	Ratings     RatingSource
	Totals      TotalsSource
	CycleID     uuid.UUID
	CurrentTime time.Time
}

// Evaluation is one priced candidate before selection
type Evaluation struct {
	Candidate   models.Candidate `json:"candidate"`
	Selection   string           `json:"selection"`
	Opponent    string           `json:"opponent"`
	Edge        float64          `json:"edge"`
	Price       int              `json:"price"`
	Probability float64          `json:"probability"`
	Implied     float64          `json:"implied"`
	Kelly       float64          `json:"kelly"`
	Stake       float64          `json:"stake"`
}

// SkippedCandidate is a candidate whose inputs were present but unusable
type SkippedCandidate struct {
	Candidate models.Candidate
	Err       error
}
