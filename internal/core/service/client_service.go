package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
	"github.com/massage-portal/client-portal/internal/pkg/phone"
)

type ClientService struct {
	clients ports.ClientRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, users ports.UserRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, users: users, logger: logger}
}

// List returns a page of profiles with their linked accounts. Admin only.
func (s *ClientService) List(ctx context.Context, id domain.Identity, in ports.ListClientsInput) (*ports.ListClientsResult, error) {
	if err := domain.Authorize(id, domain.RoleAdmin); err != nil {
		return nil, err
	}

	page, limit := normalizePage(in.Page, in.Limit)
	profiles, total, err := s.clients.List(ctx, ports.ListClientsFilter{
		Search: strings.TrimSpace(in.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	items := make([]ports.ClientDetail, 0, len(profiles))
	for _, p := range profiles {
		summary, err := s.userSummary(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		items = append(items, ports.ClientDetail{Profile: p, User: summary})
	}

	return &ports.ListClientsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Get returns a single profile. Existence is checked before ownership.
func (s *ClientService) Get(ctx context.Context, id domain.Identity, clientID string) (*ports.ClientDetail, error) {
	profile, err := s.load(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	summary, err := s.userSummary(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &ports.ClientDetail{Profile: profile, User: summary}, nil
}

// Create stores a new profile. Non-admins may only create their own; admins
// may create unlinked profiles or link any existing user.
func (s *ClientService) Create(ctx context.Context, id domain.Identity, in ports.CreateClientInput) (*domain.ClientProfile, error) {
	if id.IsZero() {
		return nil, domain.ErrNotAuthenticated
	}

	userID := in.UserID
	if userID != nil && *userID == "" {
		userID = nil
	}
	if !id.IsAdmin() {
		if userID == nil {
			self := id.UserID
			userID = &self
		}
		if *userID != id.UserID {
			return nil, domain.ErrForbidden
		}
	}

	profile, err := buildProfile(in)
	if err != nil {
		return nil, err
	}
	profile.UserID = userID

	if userID != nil {
		if _, err := s.users.FindByID(ctx, *userID); err != nil {
			return nil, err
		}
		if _, err := s.clients.FindByUserID(ctx, *userID); err == nil {
			return nil, domain.ErrDuplicateProfile
		} else if !errors.Is(err, domain.ErrClientNotFound) {
			return nil, fmt.Errorf("create client: %w", err)
		}
	}

	if _, err := s.clients.FindByEmail(ctx, profile.Email); err == nil {
		return nil, domain.ErrDuplicateClientEmail
	} else if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, fmt.Errorf("create client: %w", err)
	}

	if err := s.clients.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrDuplicateProfile) || errors.Is(err, domain.ErrDuplicateClientEmail) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create client profile")
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info().Str("client_id", profile.ID).Str("actor_id", id.UserID).Msg("client profile created")
	return profile, nil
}

// Update applies a partial update. Applying the same patch twice leaves the
// profile unchanged after the first call.
func (s *ClientService) Update(ctx context.Context, id domain.Identity, clientID string, patch domain.ClientPatch) (*domain.ClientProfile, error) {
	profile, err := s.load(ctx, id, clientID)
	if err != nil {
		return nil, err
	}

	if err := normalizePatchPhones(&patch); err != nil {
		return nil, err
	}

	if !profile.Apply(patch) {
		return profile, nil
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	s.logger.Info().Str("client_id", profile.ID).Str("actor_id", id.UserID).Msg("client profile updated")
	return profile, nil
}

func (s *ClientService) Delete(ctx context.Context, id domain.Identity, clientID string) error {
	profile, err := s.load(ctx, id, clientID)
	if err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, profile.ID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.logger.Info().Str("client_id", profile.ID).Str("actor_id", id.UserID).Msg("client profile deleted")
	return nil
}

// load fetches a profile and enforces owner-or-admin access.
func (s *ClientService) load(ctx context.Context, id domain.Identity, clientID string) (*domain.ClientProfile, error) {
	if id.IsZero() {
		return nil, domain.ErrNotAuthenticated
	}
	profile, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(id, profile.UserID) {
		return nil, domain.ErrForbidden
	}
	return profile, nil
}

func (s *ClientService) userSummary(ctx context.Context, userID *string) (*ports.UserSummary, error) {
	if userID == nil {
		return nil, nil
	}
	u, err := s.users.FindByID(ctx, *userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ports.UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
	}, nil
}

func buildProfile(in ports.CreateClientInput) (*domain.ClientProfile, error) {
	verr := &domain.ValidationError{}

	email := domain.NormalizeEmail(in.Email)
	if validate.Var(email, "required,email") != nil {
		verr.Add("email", "Valid email is required")
	}

	normalize := func(field, raw string) string {
		if strings.TrimSpace(raw) == "" {
			return ""
		}
		p, err := phone.Normalize(raw)
		if err != nil {
			verr.Add(field, "Phone must be a valid phone number")
			return raw
		}
		return p
	}
	phoneNumber := normalize("phone", in.Phone)
	emergencyPhone := normalize("emergencyContactPhone", in.EmergencyContactPhone)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.ClientProfile{
		ID:                    uuid.NewString(),
		Email:                 email,
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Phone:                 phoneNumber,
		Address:               in.Address,
		City:                  in.City,
		State:                 in.State,
		ZipCode:               in.ZipCode,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: emergencyPhone,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if in.DateOfBirth != nil {
		profile.Apply(domain.ClientPatch{DateOfBirth: in.DateOfBirth})
	}
	return profile, nil
}

func normalizePatchPhones(patch *domain.ClientPatch) error {
	verr := &domain.ValidationError{}
	fields := []struct {
		name  string
		value **string
	}{
		{"phone", &patch.Phone},
		{"emergencyContactPhone", &patch.EmergencyContactPhone},
	}
	for _, f := range fields {
		if *f.value == nil || strings.TrimSpace(**f.value) == "" {
			continue
		}
		normalized, err := phone.Normalize(**f.value)
		if err != nil {
			verr.Add(f.name, "Phone must be a valid phone number")
			continue
		}
		*f.value = &normalized
	}
	return verr.OrNil()
}
