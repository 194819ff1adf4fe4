package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // by ID
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Email, strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Client profiles
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	clients   map[string]*domain.ClientProfile
	createErr error
	updates   int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.ClientProfile)}
}

func cloneProfile(p *domain.ClientProfile) *domain.ClientProfile {
	clone := *p
	if p.UserID != nil {
		id := *p.UserID
		clone.UserID = &id
	}
	return &clone
}

func (r *stubClientRepo) Create(_ context.Context, p *domain.ClientProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, c := range r.clients {
		if p.UserID != nil && c.UserID != nil && *c.UserID == *p.UserID {
			return domain.ErrDuplicateProfile
		}
		if c.Email == p.Email {
			return domain.ErrDuplicateClientEmail
		}
	}
	r.clients[p.ID] = cloneProfile(p)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.ClientProfile, error) {
	p, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubClientRepo) FindByUserID(_ context.Context, userID string) (*domain.ClientProfile, error) {
	for _, p := range r.clients {
		if p.OwnedBy(userID) {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) FindByEmail(_ context.Context, email string) (*domain.ClientProfile, error) {
	for _, p := range r.clients {
		if p.Email == email {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Update(_ context.Context, p *domain.ClientProfile) error {
	if _, ok := r.clients[p.ID]; !ok {
		return domain.ErrClientNotFound
	}
	r.updates++
	r.clients[p.ID] = cloneProfile(p)
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) List(_ context.Context, f ports.ListClientsFilter) ([]*domain.ClientProfile, int64, error) {
	var out []*domain.ClientProfile
	for _, p := range r.clients {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

type recordingActivity struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (r *recordingActivity) Record(e domain.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingActivity) types() []domain.ActivityType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type stubActivityRepo struct {
	inserted  []*domain.ActivityEvent
	insertErr error
	lastLimit int
}

func (r *stubActivityRepo) Insert(_ context.Context, e *domain.ActivityEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *stubActivityRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	r.lastLimit = limit
	var out []*domain.ActivityEvent
	for i := len(r.inserted) - 1; i >= 0 && len(out) < limit; i-- {
		if r.inserted[i].UserID == userID {
			out = append(out, r.inserted[i])
		}
	}
	return out, nil
}
