package ports

import (
	"context"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ActivityRecorder accepts events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityService stores a single activity event.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}
