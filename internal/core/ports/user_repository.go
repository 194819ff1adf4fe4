package ports

import (
	"context"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ListUsersFilter carries the query parameters for listing user accounts.
type ListUsersFilter struct {
	Search string      // optional: case-insensitive match on email, first or last name
	Role   domain.Role // optional
	Page   int         // 1-based
	Limit  int
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrDuplicateEmail when the
	// email is already taken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update overwrites the mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
