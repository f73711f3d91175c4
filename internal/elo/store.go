// Package elo maintains team ratings with the logistic Elo model and rebuilds
// them from an ordered match history.
package elo

import (
	"math"
	"sort"
)

const (
	// DefaultBaseRating is assigned to a team the first time it is seen
	DefaultBaseRating = 1500.0
	// DefaultKFactor is the per-game step size
	DefaultKFactor = 20.0
	// scale is the rating difference at which the favourite is a 10:1 pick
	scale = 400.0
)

// ExpectedScore returns the probability that a team rated ratingA beats a team rated ratingB
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/scale))
}

// ActualScore maps a final score to the Elo outcome for the first team.
// Equal scores are always a half point.
func ActualScore(scoreA, scoreB float64) float64 {
	switch {
	case scoreA > scoreB:
		return 1.0
	case scoreA < scoreB:
		return 0.0
	default:
		return 0.5
	}
}

// Store holds mutable team ratings. It is not safe for concurrent use; a
// replay owns its store until it hands back a Snapshot.
type Store struct {
	base    float64
	ratings map[string]float64
}

// NewStore creates an empty store whose unseen teams read as baseRating
func NewStore(baseRating float64) *Store {
	return &Store{
		base:    baseRating,
		ratings: make(map[string]float64),
	}
}

// BaseRating returns the rating assigned to unseen teams
func (s *Store) BaseRating() float64 {
	return s.base
}

// Rating returns the stored rating or the base rating. Reading never inserts.
func (s *Store) Rating(team string) float64 {
	if r, ok := s.ratings[team]; ok {
		return r
	}
	return s.base
}

// Has reports whether the team has been rated
func (s *Store) Has(team string) bool {
	_, ok := s.ratings[team]
	return ok
}

// Len returns the number of rated teams
func (s *Store) Len() int {
	return len(s.ratings)
}

// Set overwrites a team's rating
func (s *Store) Set(team string, rating float64) {
	s.ratings[team] = rating
}

// ApplyResult updates both teams from one game and returns their new ratings.
// Both expectations use the ratings held before the call. Scores are not
// validated; passing negative scores is the caller's error.
func (s *Store) ApplyResult(teamA, teamB string, scoreA, scoreB, k float64) (float64, float64) {
	ratingA := s.Rating(teamA)
	ratingB := s.Rating(teamB)

	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := ExpectedScore(ratingB, ratingA)

	actualA := ActualScore(scoreA, scoreB)
	actualB := 1.0 - actualA

	newA := ratingA + k*(actualA-expectedA)
	newB := ratingB + k*(actualB-expectedB)

	s.ratings[teamA] = newA
	s.ratings[teamB] = newB
	return newA, newB
}

// Snapshot copies the current ratings into an immutable value
func (s *Store) Snapshot() Snapshot {
	ratings := make(map[string]float64, len(s.ratings))
	teams := make([]string, 0, len(s.ratings))
	for team, r := range s.ratings {
		ratings[team] = r
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return Snapshot{base: s.base, ratings: ratings, teams: teams}
}
