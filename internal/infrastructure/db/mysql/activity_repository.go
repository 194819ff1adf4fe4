package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	var meta []byte
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		meta = b
	}

	var userID *string
	if e.UserID != "" {
		userID = &e.UserID
	}

	query := `INSERT INTO activity_events (id, type, user_id, email, remote_ip, metadata, occurred_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, string(e.Type), nullString(userID), e.Email, e.RemoteIP, meta, e.OccurredAt,
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	query := `SELECT id, type, user_id, email, remote_ip, metadata, occurred_at
	          FROM activity_events WHERE user_id = ?
	          ORDER BY occurred_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.ActivityEvent, 0, limit)
	for rows.Next() {
		var (
			e    domain.ActivityEvent
			typ  string
			uid  sql.NullString
			meta []byte
		)
		if err := rows.Scan(&e.ID, &typ, &uid, &e.Email, &e.RemoteIP, &meta, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Type = domain.ActivityType(typ)
		e.UserID = uid.String
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode activity metadata: %w", err)
			}
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
