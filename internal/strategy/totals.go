package strategy

import "github.com/yourusername/gridiron-edge/internal/models"

// DefaultLookbackGames is the number of recent games averaged per team
const DefaultLookbackGames = 8

type pointsWindow struct {
	scored  []float64
	allowed []float64
}

func (w *pointsWindow) push(scored, allowed float64, size int) {
	w.scored = append(w.scored, scored)
	w.allowed = append(w.allowed, allowed)
	if len(w.scored) > size {
		w.scored = w.scored[1:]
		w.allowed = w.allowed[1:]
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// TotalsModel projects game totals from each team's recent points for and against
type TotalsModel struct {
	lookback int
	teams    map[string]*pointsWindow
}

// NewTotalsModel builds the model from history in the given order
func NewTotalsModel(history []models.MatchRecord, lookback int) *TotalsModel {
	if lookback <= 0 {
		lookback = DefaultLookbackGames
	}
	m := &TotalsModel{
		lookback: lookback,
		teams:    make(map[string]*pointsWindow),
	}
	for i := range history {
		r := &history[i]
		m.window(r.HomeTeam).push(r.HomeScore, r.AwayScore, lookback)
		m.window(r.AwayTeam).push(r.AwayScore, r.HomeScore, lookback)
	}
	return m
}

func (m *TotalsModel) window(team string) *pointsWindow {
	w, ok := m.teams[team]
	if !ok {
		w = &pointsWindow{}
		m.teams[team] = w
	}
	return w
}

// Averages returns a team's mean points scored and allowed over the window
func (m *TotalsModel) Averages(team string) (float64, float64, bool) {
	w, ok := m.teams[team]
	if !ok || len(w.scored) == 0 {
		return 0, 0, false
	}
	return mean(w.scored), mean(w.allowed), true
}

// ExpectedTotal averages each side's offence against the other's defence.
// Returns false when either team has no history.
func (m *TotalsModel) ExpectedTotal(home, away string) (float64, bool) {
	homePF, homePA, ok := m.Averages(home)
	if !ok {
		return 0, false
	}
	awayPF, awayPA, ok := m.Averages(away)
	if !ok {
		return 0, false
	}
	return (homePF+awayPA)/2 + (awayPF+homePA)/2, true
}
