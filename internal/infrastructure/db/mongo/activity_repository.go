package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ActivityRepository stores the account activity audit trail.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDoc struct {
	ID         string            `bson:"_id"`
	Type       string            `bson:"type"`
	UserID     string            `bson:"user_id,omitempty"`
	Email      string            `bson:"email,omitempty"`
	RemoteIP   string            `bson:"remote_ip,omitempty"`
	Metadata   map[string]string `bson:"metadata,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDoc{
		ID:         e.ID,
		Type:       string(e.Type),
		UserID:     e.UserID,
		Email:      e.Email,
		RemoteIP:   e.RemoteIP,
		Metadata:   e.Metadata,
		OccurredAt: e.OccurredAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	events := make([]*domain.ActivityEvent, len(docs))
	for i, d := range docs {
		events[i] = &domain.ActivityEvent{
			ID:         d.ID,
			Type:       domain.ActivityType(d.Type),
			UserID:     d.UserID,
			Email:      d.Email,
			RemoteIP:   d.RemoteIP,
			Metadata:   d.Metadata,
			OccurredAt: d.OccurredAt.UTC(),
		}
	}
	return events, nil
}
