package handler

import (
	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	users := make([]userResponse, len(r.Items))
	for i, u := range r.Items {
		users[i] = toUserResponse(u)
	}
	return listUsersResponse{
		Users: users,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toActivityResponse(events []*domain.ActivityEvent) activityResponse {
	out := make([]activityEventResponse, len(events))
	for i, e := range events {
		out[i] = activityEventResponse{
			ID:         e.ID,
			Type:       string(e.Type),
			UserID:     e.UserID,
			Email:      e.Email,
			RemoteIP:   e.RemoteIP,
			OccurredAt: e.OccurredAt.UTC(),
			Metadata:   e.Metadata,
		}
	}
	return activityResponse{Events: out}
}

func toClientResponse(p *domain.ClientProfile, user *ports.UserSummary) clientResponse {
	resp := clientResponse{
		ID:                    p.ID,
		UserID:                p.UserID,
		Email:                 p.Email,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Phone:                 p.Phone,
		Address:               p.Address,
		City:                  p.City,
		State:                 p.State,
		ZipCode:               p.ZipCode,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt.UTC(),
		UpdatedAt:             p.UpdatedAt.UTC(),
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(domain.DateLayout)
		resp.DateOfBirth = &dob
	}
	if user != nil {
		resp.User = &userSummaryResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
			Active:    user.Active,
		}
	}
	return resp
}

func toClientsResponse(r *ports.ListClientsResult) listClientsResponse {
	clients := make([]clientResponse, len(r.Items))
	for i, item := range r.Items {
		clients[i] = toClientResponse(item.Profile, item.User)
	}
	return listClientsResponse{
		Clients: clients,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

// toCreateClientInput maps the request to the service DTO. The request has
// already passed validation, so the date parses.
func toCreateClientInput(r createClientRequest) (ports.CreateClientInput, error) {
	in := ports.CreateClientInput{
		UserID:                r.UserID,
		Email:                 r.Email,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Phone:                 r.Phone,
		Address:               r.Address,
		City:                  r.City,
		State:                 r.State,
		ZipCode:               r.ZipCode,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		Notes:                 r.Notes,
	}
	if r.DateOfBirth != "" {
		dob, err := domain.ParseDate(r.DateOfBirth)
		if err != nil {
			return ports.CreateClientInput{}, domain.NewValidationError("dateOfBirth", "dateOfBirth must be a valid date (YYYY-MM-DD)")
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}

// toClientPatch maps an update request to a patch. An empty dateOfBirth is
// ignored: a stored date of birth can be corrected but not cleared.
func toClientPatch(r updateClientRequest) (domain.ClientPatch, error) {
	patch := domain.ClientPatch{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Phone:                 r.Phone,
		Address:               r.Address,
		City:                  r.City,
		State:                 r.State,
		ZipCode:               r.ZipCode,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		Notes:                 r.Notes,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := domain.ParseDate(*r.DateOfBirth)
		if err != nil {
			return domain.ClientPatch{}, domain.NewValidationError("dateOfBirth", "dateOfBirth must be a valid date (YYYY-MM-DD)")
		}
		patch.DateOfBirth = &dob
	}
	return patch, nil
}
