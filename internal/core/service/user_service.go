package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// AccountCreator creates a validated account with a hashed password.
type AccountCreator interface {
	CreateAccount(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
}

// UserService implements account administration for admins.
type UserService struct {
	users    ports.UserRepository
	accounts AccountCreator
	events   ports.ActivityRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	accounts AccountCreator,
	events ports.ActivityRepository,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, accounts: accounts, events: events, activity: activity, log: log}
}

func (s *UserService) List(ctx context.Context, id domain.Identity, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(id, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, domain.NewValidationError("role", "Invalid role")
	}

	page, limit := normalizePage(in.Page, in.Limit)
	users, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Search: strings.TrimSpace(in.Search),
		Role:   in.Role,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Create lets an admin open an account with any role.
func (s *UserService) Create(ctx context.Context, id domain.Identity, in ports.RegisterInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.accounts.CreateAccount(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("actor_id", id.UserID).Msg("user created by admin")
	return user, nil
}

// SetActive activates or deactivates an account. Deactivated users are
// rejected on their next authenticated request.
func (s *UserService) SetActive(ctx context.Context, id domain.Identity, userID string, active bool) (*domain.User, error) {
	if err := domain.Authorize(id, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if userID == id.UserID && !active {
		return nil, domain.NewValidationError("active", "You cannot deactivate your own account")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Active == active {
		return user, nil
	}

	user.Active = active
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	if s.activity != nil {
		s.activity.Record(domain.ActivityEvent{
			ID:         uuid.NewString(),
			Type:       domain.ActivityStatusChanged,
			UserID:     user.ID,
			Email:      user.Email,
			OccurredAt: user.UpdatedAt,
			Metadata: map[string]string{
				"active":   strconv.FormatBool(active),
				"actor_id": id.UserID,
			},
		})
	}
	s.log.Info().Str("user_id", user.ID).Bool("active", active).Str("actor_id", id.UserID).Msg("user status changed")
	return user, nil
}

// Activity returns the most recent activity of userID, newest first.
func (s *UserService) Activity(ctx context.Context, id domain.Identity, userID string, limit int) ([]*domain.ActivityEvent, error) {
	if err := domain.Authorize(id, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	events, err := s.events.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}
