package domain

import "time"

// DateLayout is the wire format for date-only fields such as DateOfBirth.
const DateLayout = "2006-01-02"

// ClientProfile is the practice's record of a client. It may exist without
// a linked user account.
type ClientProfile struct {
	ID                    string
	UserID                *string
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
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OwnedBy reports whether the profile is linked to userID.
func (p *ClientProfile) OwnedBy(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}

// ClientPatch is a partial update. A nil field keeps the stored value; a
// non-nil field replaces it, so an empty string clears it. Email and the
// linked user are immutable once the profile exists.
type ClientPatch struct {
	FirstName             *string
	LastName              *string
	Phone                 *string
	Address               *string
	City                  *string
	State                 *string
	ZipCode               *string
	DateOfBirth           *time.Time
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Notes                 *string
}

// Apply merges patch into p and reports whether any field changed.
func (p *ClientProfile) Apply(patch ClientPatch) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}

	set(&p.FirstName, patch.FirstName)
	set(&p.LastName, patch.LastName)
	set(&p.Phone, patch.Phone)
	set(&p.Address, patch.Address)
	set(&p.City, patch.City)
	set(&p.State, patch.State)
	set(&p.ZipCode, patch.ZipCode)
	set(&p.EmergencyContactName, patch.EmergencyContactName)
	set(&p.EmergencyContactPhone, patch.EmergencyContactPhone)
	set(&p.Notes, patch.Notes)

	if patch.DateOfBirth != nil {
		dob := truncateDate(*patch.DateOfBirth)
		if p.DateOfBirth == nil || !p.DateOfBirth.Equal(dob) {
			p.DateOfBirth = &dob
			changed = true
		}
	}
	return changed
}

// AdoptUser links an unlinked profile to u and fills empty contact fields
// from the account.
func (p *ClientProfile) AdoptUser(u *User) {
	id := u.ID
	p.UserID = &id
	if p.FirstName == "" {
		p.FirstName = u.FirstName
	}
	if p.LastName == "" {
		p.LastName = u.LastName
	}
	if p.Phone == "" {
		p.Phone = u.Phone
	}
}

// ParseDate parses a date-only value in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
