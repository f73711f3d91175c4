package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// BetsLogHeader is written once, when the log file is created
var BetsLogHeader = []string{
	"created_at", "cycle_id", "matchup", "game_time", "bet_type", "selection", "opponent",
	"odds", "edge_pct", "stake", "market_total", "model_total",
}

// BetsLog appends issued recommendations to a CSV file
type BetsLog struct {
	path string
	mu   sync.Mutex
}

// NewBetsLog creates a bets log writing to path
func NewBetsLog(path string) *BetsLog {
	return &BetsLog{path: path}
}

// Path returns the log file location
func (l *BetsLog) Path() string {
	return l.path
}

// Append writes one row per recommendation, adding the header to a new or empty file
func (l *BetsLog) Append(recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating bets log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening bets log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat bets log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(BetsLogHeader); err != nil {
			return fmt.Errorf("writing bets log header: %w", err)
		}
	}
	for _, rec := range recs {
		if err := w.Write(betsLogRow(rec)); err != nil {
			return fmt.Errorf("writing bets log row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func betsLogRow(rec *models.Recommendation) []string {
	odds := ""
	if rec.AmericanOdds != nil {
		odds = strconv.Itoa(*rec.AmericanOdds)
	}
	gameTime := ""
	if !rec.CommenceTime.IsZero() {
		gameTime = rec.CommenceTime.UTC().Format(time.RFC3339)
	}
	return []string{
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.CycleID.String(),
		rec.Matchup,
		gameTime,
		string(rec.BetType),
		rec.Selection,
		rec.Opponent,
		odds,
		rec.EdgePercent().StringFixed(2),
		rec.StakeAmount().StringFixed(2),
		optionalTotal(rec.MarketTotal),
		optionalTotal(rec.ModelTotal),
	}
}

func optionalTotal(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).Round(2).String()
}
