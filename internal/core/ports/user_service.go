package ports

import (
	"context"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ListUsersInput carries the parameters for listing accounts.
type ListUsersInput struct {
	Search string
	Role   domain.Role
	Page   int
	Limit  int
}

// ListUsersResult is returned by UserService.List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers account administration. All operations are admin only.
type UserService interface {
	List(ctx context.Context, id domain.Identity, input ListUsersInput) (*ListUsersResult, error)
	Create(ctx context.Context, id domain.Identity, input RegisterInput) (*domain.User, error)
	SetActive(ctx context.Context, id domain.Identity, userID string, active bool) (*domain.User, error)
	Activity(ctx context.Context, id domain.Identity, userID string, limit int) ([]*domain.ActivityEvent, error)
}
