package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingEntry is one persisted team rating belonging to a snapshot
type RatingEntry struct {
	SnapshotID uuid.UUID `db:"snapshot_id" json:"snapshot_id"`
	Team       string    `db:"team" json:"team" validate:"required"`
	Rating     float64   `db:"rating" json:"rating"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RatingSnapshotMeta describes a persisted replay run
type RatingSnapshotMeta struct {
	ID               uuid.UUID `db:"id" json:"id"`
	BaseRating       float64   `db:"base_rating" json:"base_rating"`
	KFactor          float64   `db:"k_factor" json:"k_factor"`
	MatchesProcessed int       `db:"matches_processed" json:"matches_processed"`
	TeamCount        int       `db:"team_count" json:"team_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
