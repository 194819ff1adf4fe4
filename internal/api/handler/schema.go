package handler

import (
	"time"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// errorResponse documents the error envelope rendered by api.NewHTTPErrorHandler.
type errorResponse struct {
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Phone     string `json:"phone"     validate:"omitempty,phone"`
	Role      string `json:"role"      validate:"omitempty,oneof=client"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response-only types owned by the transport layer, kept apart from the
// domain structs so the JSON contract does not follow internal changes.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authResponse struct {
	Message   string       `json:"message"`
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

// --- Clients ---

type listClientsQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type createClientRequest struct {
	UserID                *string `json:"userId"`
	Email                 string  `json:"email"                 validate:"required,email"`
	FirstName             string  `json:"firstName"             validate:"max=100"`
	LastName              string  `json:"lastName"              validate:"max=100"`
	Phone                 string  `json:"phone"                 validate:"omitempty,phone"`
	Address               string  `json:"address"               validate:"max=255"`
	City                  string  `json:"city"                  validate:"max=100"`
	State                 string  `json:"state"                 validate:"max=100"`
	ZipCode               string  `json:"zipCode"               validate:"max=20"`
	DateOfBirth           string  `json:"dateOfBirth"           validate:"omitempty,datetime=2006-01-02"`
	EmergencyContactName  string  `json:"emergencyContactName"  validate:"max=200"`
	EmergencyContactPhone string  `json:"emergencyContactPhone" validate:"omitempty,phone"`
	Notes                 string  `json:"notes"                 validate:"max=5000"`
}

// updateClientRequest distinguishes an absent field (nil, keep) from an
// explicit empty string (clear).
type updateClientRequest struct {
	FirstName             *string `json:"firstName"             validate:"omitempty,max=100"`
	LastName              *string `json:"lastName"              validate:"omitempty,max=100"`
	Phone                 *string `json:"phone"                 validate:"omitempty,phone"`
	Address               *string `json:"address"               validate:"omitempty,max=255"`
	City                  *string `json:"city"                  validate:"omitempty,max=100"`
	State                 *string `json:"state"                 validate:"omitempty,max=100"`
	ZipCode               *string `json:"zipCode"               validate:"omitempty,max=20"`
	DateOfBirth           *string `json:"dateOfBirth"           validate:"omitempty,datetime=2006-01-02"`
	EmergencyContactName  *string `json:"emergencyContactName"  validate:"omitempty,max=200"`
	EmergencyContactPhone *string `json:"emergencyContactPhone" validate:"omitempty,phone"`
	Notes                 *string `json:"notes"                 validate:"omitempty,max=5000"`
}

type userSummaryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

type clientResponse struct {
	ID                    string               `json:"id"`
	UserID                *string              `json:"userId"`
	Email                 string               `json:"email"`
	FirstName             string               `json:"firstName"`
	LastName              string               `json:"lastName"`
	Phone                 string               `json:"phone"`
	Address               string               `json:"address"`
	City                  string               `json:"city"`
	State                 string               `json:"state"`
	ZipCode               string               `json:"zipCode"`
	DateOfBirth           *string              `json:"dateOfBirth"`
	EmergencyContactName  string               `json:"emergencyContactName"`
	EmergencyContactPhone string               `json:"emergencyContactPhone"`
	Notes                 string               `json:"notes"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             time.Time            `json:"updatedAt"`
	User                  *userSummaryResponse `json:"user,omitempty"`
}

type clientEnvelope struct {
	Message string         `json:"message,omitempty"`
	Client  clientResponse `json:"client"`
}

type listClientsResponse struct {
	Clients    []clientResponse   `json:"clients"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Users ---

type listUsersQuery struct {
	Search string `query:"search"`
	Role   string `query:"role"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type activityQuery struct {
	Limit int `query:"limit"`
}

// createUserRequest is the staff form; unlike public registration it may
// assign any role.
type createUserRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Phone     string `json:"phone"     validate:"omitempty,phone"`
	Role      string `json:"role"      validate:"required,oneof=admin therapist client"`
}

type setStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type listUsersResponse struct {
	Users      []userResponse     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

type activityEventResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	UserID     string            `json:"userId,omitempty"`
	Email      string            `json:"email,omitempty"`
	RemoteIP   string            `json:"remoteIp,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type activityResponse struct {
	Events []activityEventResponse `json:"events"`
}
