package ports

import (
	"context"
	"time"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role // empty defaults to client
	RemoteIP  string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Authenticator resolves a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

type AuthService interface {
	Authenticator
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	CurrentUser(ctx context.Context, id domain.Identity) (*domain.User, error)
}
