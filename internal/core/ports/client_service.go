package ports

import (
	"context"
	"time"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// CreateClientInput carries all data needed to create a client profile.
type CreateClientInput struct {
	UserID                *string // nil: the caller for non-admins, unlinked for admins
	Email                 string
	FirstName             string
	LastName              string
	Phone                 string
	Address               string
	City                  string
	State                 string
	ZipCode               string
	DateOfBirth           *time.Time
	EmergencyContactName  string
	EmergencyContactPhone string
	Notes                 string
}

// ListClientsInput carries the parameters for the list endpoint.
type ListClientsInput struct {
	Search string
	Page   int
	Limit  int
}

// UserSummary is the subset of the linked account shown with a profile.
type UserSummary struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Active    bool
}

// ClientDetail is a profile plus its linked account, when there is one.
type ClientDetail struct {
	Profile *domain.ClientProfile
	User    *UserSummary
}

// ListClientsResult is returned by ClientService.List.
type ListClientsResult struct {
	Items      []ClientDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ClientService defines use-case operations for client profiles. Every
// operation takes the caller's identity and enforces ownership itself.
type ClientService interface {
	List(ctx context.Context, id domain.Identity, input ListClientsInput) (*ListClientsResult, error)
	Get(ctx context.Context, id domain.Identity, clientID string) (*ClientDetail, error)
	Create(ctx context.Context, id domain.Identity, input CreateClientInput) (*domain.ClientProfile, error)
	Update(ctx context.Context, id domain.Identity, clientID string, patch domain.ClientPatch) (*domain.ClientProfile, error)
	Delete(ctx context.Context, id domain.Identity, clientID string) error
}
