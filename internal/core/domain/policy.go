package domain

// Authorize allows id when its role is one of allowed.
func Authorize(id Identity, allowed ...Role) error {
	if id.IsZero() {
		return ErrNotAuthenticated
	}
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// CanAccess reports whether id may act on a resource owned by ownerID.
// Admins may act on any resource, including unowned ones.
func CanAccess(id Identity, ownerID *string) bool {
	if id.IsZero() {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == id.UserID
}
