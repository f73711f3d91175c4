package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrTeamRequired  = errors.New("home and away team are required")
	ErrSameTeam      = errors.New("home and away team must differ")
	ErrNegativeScore = errors.New("scores must be non-negative")
	ErrInvalidScore  = errors.New("scores must be finite numbers")
	ErrEmptyHistory  = errors.New("match history is empty")
)
