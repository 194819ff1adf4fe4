package domain

import "time"

// ActivityType classifies an account activity event.
type ActivityType string

const (
	ActivityRegister      ActivityType = "auth.register"
	ActivityLoginSuccess  ActivityType = "auth.login.success"
	ActivityLoginFailure  ActivityType = "auth.login.failure"
	ActivityLoginInactive ActivityType = "auth.login.inactive"
	ActivityStatusChanged ActivityType = "user.status.changed"
)

// ActivityEvent is one entry of a user's authentication audit trail.
type ActivityEvent struct {
	ID         string
	Type       ActivityType
	UserID     string // empty for failed logins against unknown emails
	Email      string
	RemoteIP   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Key groups events of the same account so they are handled in order.
func (e ActivityEvent) Key() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Email
}
