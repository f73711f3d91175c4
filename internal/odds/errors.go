package odds

import (
	"errors"
	"fmt"
)

// ErrInvalidOdds is matched by every InvalidOddsError via errors.Is
var ErrInvalidOdds = errors.New("invalid odds")

// InvalidOddsError reports an American or decimal price that cannot be converted
type InvalidOddsError struct {
	Odds   float64
	Reason string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid odds %v: %s", e.Odds, e.Reason)
}

// Is lets callers test against ErrInvalidOdds
func (e *InvalidOddsError) Is(target error) bool {
	return target == ErrInvalidOdds
}

// NewInvalidOddsError creates a new invalid odds error
func NewInvalidOddsError(odds float64, reason string) *InvalidOddsError {
	return &InvalidOddsError{
		Odds:   odds,
		Reason: reason,
	}
}
