package ports

import (
	"context"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ListClientsFilter carries the query parameters for listing client profiles.
type ListClientsFilter struct {
	Search string // optional: case-insensitive match on email, first or last name
	Page   int    // 1-based
	Limit  int
}

// ClientRepository persists client profiles.
type ClientRepository interface {
	// Create persists a new profile. Returns domain.ErrDuplicateProfile when the
	// linked user already has a profile and domain.ErrDuplicateClientEmail when
	// the email is taken.
	Create(ctx context.Context, p *domain.ClientProfile) error
	FindByID(ctx context.Context, id string) (*domain.ClientProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error)
	FindByEmail(ctx context.Context, email string) (*domain.ClientProfile, error)
	Update(ctx context.Context, p *domain.ClientProfile) error
	Delete(ctx context.Context, id string) error
	// List returns a page of profiles, newest first, and the total count.
	List(ctx context.Context, filter ListClientsFilter) ([]*domain.ClientProfile, int64, error)
}
