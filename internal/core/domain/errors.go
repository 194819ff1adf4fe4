package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrNotAuthenticated   = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound   = errors.New("user not found")
	ErrClientNotFound = errors.New("client not found")

	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrDuplicateClientEmail = errors.New("client with this email already exists")
	ErrDuplicateProfile     = errors.New("client profile already exists for this user")

	ErrRateLimited = errors.New("rate limit exceeded")
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level failures. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError holding a single field failure.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e as an error when it holds at least one failure, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
