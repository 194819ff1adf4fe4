package ports

import (
	"context"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ActivityRepository persists the account activity audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
	// ListByUser returns at most limit events for userID, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error)
}
