package handler

import (
	"errors"

	"github.com/massage-portal/client-portal/internal/api/metrics"
	"github.com/massage-portal/client-portal/internal/core/domain"
)

// recordClientOp counts a client profile operation by its outcome.
func recordClientOp(op string, err error) {
	metrics.ClientOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAuthenticated):
		return "forbidden"
	case errors.Is(err, domain.ErrClientNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateClientEmail), errors.Is(err, domain.ErrDuplicateProfile):
		return "conflict"
	default:
		return "error"
	}
}
