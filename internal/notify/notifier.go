// Package notify delivers issued recommendations to external channels.
package notify

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Notifier delivers a recommendation to a channel
type Notifier interface {
	Notify(ctx context.Context, rec *models.Recommendation) error
	Channel() string
}
