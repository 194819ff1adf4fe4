// Package memory provides map-backed repositories for local development and
// tests. All repositories are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

// Store bundles the in-memory repositories.
type Store struct {
	Users    *UserRepository
	Clients  *ClientRepository
	Activity *ActivityRepository
}

func NewStore() *Store {
	return &Store{
		Users:    NewUserRepository(),
		Clients:  NewClientRepository(),
		Activity: NewActivityRepository(),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// ── Users ────────────────────────────────────────────────────────────────────

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	email map[string]string // email -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*domain.User), email: make(map[string]string)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.email[u.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if cur.Email != u.Email {
		if _, taken := r.email[u.Email]; taken {
			return domain.ErrDuplicateEmail
		}
		delete(r.email, cur.Email)
		r.email[u.Email] = u.ID
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *UserRepository) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !matches(f.Search, u.Email, u.FirstName, u.LastName) {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// ── Client profiles ──────────────────────────────────────────────────────────

type ClientRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.ClientProfile
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{byID: make(map[string]*domain.ClientProfile)}
}

func cloneProfile(p *domain.ClientProfile) *domain.ClientProfile {
	clone := *p
	if p.UserID != nil {
		id := *p.UserID
		clone.UserID = &id
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		clone.DateOfBirth = &dob
	}
	return &clone
}

// conflict reports the uniqueness rule p would break, ignoring the row
// with p's own ID.
func (r *ClientRepository) conflict(p *domain.ClientProfile) error {
	for id, c := range r.byID {
		if id == p.ID {
			continue
		}
		if p.UserID != nil && c.UserID != nil && *c.UserID == *p.UserID {
			return domain.ErrDuplicateProfile
		}
		if c.Email == p.Email {
			return domain.ErrDuplicateClientEmail
		}
	}
	return nil
}

func (r *ClientRepository) Create(_ context.Context, p *domain.ClientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(p); err != nil {
		return err
	}
	r.byID[p.ID] = cloneProfile(p)
	return nil
}

func (r *ClientRepository) FindByID(_ context.Context, id string) (*domain.ClientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return cloneProfile(p), nil
}

func (r *ClientRepository) FindByUserID(_ context.Context, userID string) (*domain.ClientProfile, error) {
	return r.findFirst(func(p *domain.ClientProfile) bool { return p.OwnedBy(userID) })
}

func (r *ClientRepository) FindByEmail(_ context.Context, email string) (*domain.ClientProfile, error) {
	return r.findFirst(func(p *domain.ClientProfile) bool { return p.Email == email })
}

func (r *ClientRepository) findFirst(match func(*domain.ClientProfile) bool) (*domain.ClientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.byID {
		if match(p) {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *ClientRepository) Update(_ context.Context, p *domain.ClientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrClientNotFound
	}
	if err := r.conflict(p); err != nil {
		return err
	}
	r.byID[p.ID] = cloneProfile(p)
	return nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ClientRepository) List(_ context.Context, f ports.ListClientsFilter) ([]*domain.ClientProfile, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.ClientProfile
	for _, p := range r.byID {
		if matches(f.Search, p.Email, p.FirstName, p.LastName) {
			matched = append(matched, cloneProfile(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// ── Activity ─────────────────────────────────────────────────────────────────

type ActivityRepository struct {
	mu     sync.RWMutex
	events []*domain.ActivityEvent
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Insert(_ context.Context, e *domain.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *ActivityRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.ActivityEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			clone := *r.events[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	if page-1 >= (len(items)+limit-1)/limit {
		return []T{}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
