package elo

import "sort"

// Snapshot is a read-only view of final ratings
type Snapshot struct {
	base    float64
	ratings map[string]float64
	teams   []string
}

// TeamRating pairs a team with its rating
type TeamRating struct {
	Team   string  `json:"team" yaml:"team"`
	Rating float64 `json:"rating" yaml:"rating"`
}

// NewSnapshot builds a snapshot from a plain map, used when ratings are
// restored from storage
func NewSnapshot(baseRating float64, ratings map[string]float64) Snapshot {
	s := NewStore(baseRating)
	for team, r := range ratings {
		s.Set(team, r)
	}
	return s.Snapshot()
}

// Rating returns the team's rating, or the base rating for an unseen team
func (s Snapshot) Rating(team string) float64 {
	if r, ok := s.ratings[team]; ok {
		return r
	}
	return s.base
}

// Has reports whether the team was rated
func (s Snapshot) Has(team string) bool {
	_, ok := s.ratings[team]
	return ok
}

// BaseRating returns the default for unseen teams
func (s Snapshot) BaseRating() float64 {
	return s.base
}

// Teams returns rated teams in lexical order
func (s Snapshot) Teams() []string {
	out := make([]string, len(s.teams))
	copy(out, s.teams)
	return out
}

// Len returns the number of rated teams
func (s Snapshot) Len() int {
	return len(s.teams)
}

// Map returns a copy of the ratings
func (s Snapshot) Map() map[string]float64 {
	out := make(map[string]float64, len(s.ratings))
	for team, r := range s.ratings {
		out[team] = r
	}
	return out
}

// Ranked returns all ratings, highest first. Equal ratings sort by team name.
func (s Snapshot) Ranked() []TeamRating {
	out := make([]TeamRating, 0, len(s.teams))
	for _, team := range s.teams {
		out = append(out, TeamRating{Team: team, Rating: s.ratings[team]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}
