package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
	"github.com/massage-portal/client-portal/internal/pkg/phone"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything beyond this
)

var validate = validator.New()

// AuthService implements registration, login and request authentication.
type AuthService struct {
	users      ports.UserRepository
	clients    ports.ClientRepository
	tokens     *TokenService
	activity   ports.ActivityRecorder
	bcryptCost int
	dummyHash  []byte
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	tokens *TokenService,
	activity ports.ActivityRecorder,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so both login failures cost
	// one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("auth service: generate dummy hash: %v", err))
	}
	return &AuthService{
		users:      users,
		clients:    clients,
		tokens:     tokens,
		activity:   activity,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		log:        log,
	}
}

// Register creates a client account, provisions its profile and signs the
// caller in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := s.CreateAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.ActivityRegister, user.ID, user.Email, in.RemoteIP, map[string]string{"role": string(user.Role)})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return result, nil
}

// CreateAccount validates in, stores a new user with a hashed password and,
// for client accounts, links a client profile. Profile provisioning never
// fails the call.
func (s *AuthService) CreateAccount(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = domain.RoleClient
	}

	normalizedPhone, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        normalizedPhone,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store enforces uniqueness again in case of a concurrent registration.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	if user.Role == domain.RoleClient {
		s.provisionProfile(ctx, user)
	}
	return user, nil
}

// provisionProfile links a client profile to a freshly registered user,
// adopting an unlinked profile with the same email when one exists.
func (s *AuthService) provisionProfile(ctx context.Context, user *domain.User) {
	log := s.log.With().Str("user_id", user.ID).Logger()
	now := time.Now().UTC()

	existing, err := s.clients.FindByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.UserID == nil:
		existing.AdoptUser(user)
		existing.UpdatedAt = now
		if err := s.clients.Update(ctx, existing); err != nil {
			log.Warn().Err(err).Str("client_id", existing.ID).Msg("failed to adopt client profile")
			return
		}
		log.Info().Str("client_id", existing.ID).Msg("client profile adopted")
		return
	case err == nil:
		log.Warn().Str("client_id", existing.ID).Msg("client profile with this email is linked to another user")
		return
	case !errors.Is(err, domain.ErrClientNotFound):
		log.Warn().Err(err).Msg("failed to look up client profile")
		return
	}

	userID := user.ID
	profile := &domain.ClientProfile{
		ID:        uuid.NewString(),
		UserID:    &userID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, profile); err != nil {
		log.Warn().Err(err).Msg("failed to create client profile")
		return
	}
	log.Info().Str("client_id", profile.ID).Msg("client profile created")
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		s.record(domain.ActivityLoginFailure, "", email, in.RemoteIP, map[string]string{"reason": "unknown_email"})
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.record(domain.ActivityLoginFailure, user.ID, email, in.RemoteIP, map[string]string{"reason": "wrong_password"})
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.record(domain.ActivityLoginInactive, user.ID, email, in.RemoteIP, nil)
		return nil, domain.ErrAccountInactive
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.record(domain.ActivityLoginSuccess, user.ID, email, in.RemoteIP, nil)
	return result, nil
}

// Authenticate verifies token and reloads its user, so role changes and
// deactivation take effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("authenticate: %w", err)
	}
	if !user.Active {
		return domain.Identity{}, domain.ErrAccountInactive
	}
	return user.Identity(), nil
}

// CurrentUser returns the stored account behind id.
func (s *AuthService) CurrentUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.IsZero() {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := s.users.FindByID(ctx, id.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) record(typ domain.ActivityType, userID, email, remoteIP string, meta map[string]string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		Email:      email,
		RemoteIP:   remoteIP,
		OccurredAt: time.Now().UTC(),
		Metadata:   meta,
	})
}

// validateRegistration checks in and returns the normalized phone number.
func validateRegistration(in ports.RegisterInput) (string, error) {
	verr := &domain.ValidationError{}

	if validate.Var(in.Email, "required,email") != nil {
		verr.Add("email", "Valid email is required")
	}
	switch {
	case len(in.Password) < minPasswordLength:
		verr.Add("password", fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	case len(in.Password) > maxPasswordBytes:
		verr.Add("password", fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	}
	if isBlank(in.FirstName) {
		verr.Add("firstName", "First name is required")
	}
	if isBlank(in.LastName) {
		verr.Add("lastName", "Last name is required")
	}
	if !in.Role.Valid() {
		verr.Add("role", "Invalid role")
	}

	var normalized string
	if in.Phone != "" {
		p, err := phone.Normalize(in.Phone)
		if err != nil {
			verr.Add("phone", "Phone must be a valid phone number")
		}
		normalized = p
	}

	return normalized, verr.OrNil()
}
