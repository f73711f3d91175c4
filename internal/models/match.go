package models

import (
	"math"
	"sort"
	"time"
)

// MatchRecord is one completed game from the historical log
type MatchRecord struct {
	HomeTeam  string     `json:"home_team" csv:"home_team" validate:"required"`
	AwayTeam  string     `json:"away_team" csv:"away_team" validate:"required,nefield=HomeTeam"`
	HomeScore float64    `json:"home_score" csv:"home_score" validate:"gte=0"`
	AwayScore float64    `json:"away_score" csv:"away_score" validate:"gte=0"`
	Date      *time.Time `json:"date,omitempty" csv:"date"`
}

// HasDate reports whether the record carries a game date
func (m *MatchRecord) HasDate() bool {
	return m.Date != nil && !m.Date.IsZero()
}

// Validate performs the checks the rating engine assumes have already happened
func (m *MatchRecord) Validate() error {
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return ErrTeamRequired
	}
	if m.HomeTeam == m.AwayTeam {
		return ErrSameTeam
	}
	if !isFinite(m.HomeScore) || !isFinite(m.AwayScore) {
		return ErrInvalidScore
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return ErrNegativeScore
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// AllDated reports whether every record has a date
func AllDated(records []MatchRecord) bool {
	if len(records) == 0 {
		return false
	}
	for i := range records {
		if !records[i].HasDate() {
			return false
		}
	}
	return true
}

// SortByDate orders records ascending by date in place. Records that share a
// date keep their order of appearance. When any record lacks a date the
// slice is left untouched and false is returned.
func SortByDate(records []MatchRecord) bool {
	if !AllDated(records) {
		return false
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(*records[j].Date)
	})
	return true
}
