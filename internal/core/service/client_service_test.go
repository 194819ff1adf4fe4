package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

var (
	asAdmin  = domain.Identity{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
	asClient = domain.Identity{UserID: "user-1", Email: "ann@example.com", Role: domain.RoleClient}
	asOther  = domain.Identity{UserID: "user-2", Email: "bob@example.com", Role: domain.RoleClient}
)

func newClientFixture() (*ClientService, *stubClientRepo, *stubUserRepo) {
	users := newStubUserRepo()
	for _, id := range []domain.Identity{asAdmin, asClient, asOther} {
		users.users[id.UserID] = &domain.User{ID: id.UserID, Email: id.Email, Role: id.Role, Active: true, FirstName: "F", LastName: "L"}
	}
	clients := newStubClientRepo()
	return NewClientService(clients, users, zerolog.Nop()), clients, users
}

func seedProfile(repo *stubClientRepo, id, email string, owner *string, created time.Time) *domain.ClientProfile {
	p := &domain.ClientProfile{ID: id, UserID: owner, Email: email, FirstName: "Ann", LastName: "Lee", City: "Austin", CreatedAt: created}
	repo.clients[id] = p
	return p
}

func ptr[T any](v T) *T { return &v }

func TestClientService_List_AdminOnly(t *testing.T) {
	svc, repo, _ := newClientFixture()
	now := time.Now().UTC()
	seedProfile(repo, "c1", "ann@example.com", ptr("user-1"), now.Add(-time.Hour))
	seedProfile(repo, "c2", "walkin@example.com", nil, now)

	if _, err := svc.List(context.Background(), asClient, ports.ListClientsInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for client, got %v", err)
	}

	res, err := svc.List(context.Background(), asAdmin, ports.ListClientsInput{Limit: 500})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Limit != 100 || res.Page != 1 {
		t.Fatalf("expected clamped paging, got page=%d limit=%d", res.Page, res.Limit)
	}
	if res.Total != 2 || len(res.Items) != 2 || res.TotalPages != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].Profile.ID != "c2" {
		t.Fatalf("expected newest first, got %s", res.Items[0].Profile.ID)
	}
	if res.Items[0].User != nil {
		t.Fatalf("unlinked profile should have no user summary")
	}
	if res.Items[1].User == nil || res.Items[1].User.ID != "user-1" {
		t.Fatalf("expected linked user summary, got %+v", res.Items[1].User)
	}
}

func TestClientService_Get_Ownership(t *testing.T) {
	svc, repo, _ := newClientFixture()
	seedProfile(repo, "c1", "ann@example.com", ptr("user-1"), time.Now())

	if _, err := svc.Get(context.Background(), asClient, "c1"); err != nil {
		t.Fatalf("owner should read own profile: %v", err)
	}
	if _, err := svc.Get(context.Background(), asOther, "c1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), asAdmin, "c1"); err != nil {
		t.Fatalf("admin should read any profile: %v", err)
	}
	// Not found wins over forbidden.
	if _, err := svc.Get(context.Background(), asOther, "missing"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Identity{}, "c1"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestClientService_Create_SelfDefaultsToCaller(t *testing.T) {
	svc, _, _ := newClientFixture()

	p, err := svc.Create(context.Background(), asClient, ports.CreateClientInput{
		Email: "Ann@Example.com",
		Phone: "(202) 456-1111",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !p.OwnedBy("user-1") {
		t.Fatalf("expected profile owned by caller, got %v", p.UserID)
	}
	if p.Email != "ann@example.com" || p.Phone != "+12024561111" {
		t.Fatalf("fields not normalized: %+v", p)
	}
}

func TestClientService_Create_Rules(t *testing.T) {
	svc, repo, _ := newClientFixture()

	if _, err := svc.Create(context.Background(), asClient, ports.CreateClientInput{UserID: ptr("user-2"), Email: "x@example.com"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden creating for another user, got %v", err)
	}
	if _, err := svc.Create(context.Background(), asAdmin, ports.CreateClientInput{UserID: ptr("ghost"), Email: "x@example.com"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	seedProfile(repo, "c1", "ann@example.com", ptr("user-1"), time.Now())
	if _, err := svc.Create(context.Background(), asClient, ports.CreateClientInput{Email: "second@example.com"}); !errors.Is(err, domain.ErrDuplicateProfile) {
		t.Fatalf("expected ErrDuplicateProfile, got %v", err)
	}
	if _, err := svc.Create(context.Background(), asAdmin, ports.CreateClientInput{Email: "ANN@example.com"}); !errors.Is(err, domain.ErrDuplicateClientEmail) {
		t.Fatalf("expected ErrDuplicateClientEmail, got %v", err)
	}
	if _, err := svc.Create(context.Background(), asAdmin, ports.CreateClientInput{Email: "nope"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClientService_Create_AdminUnlinked(t *testing.T) {
	svc, _, _ := newClientFixture()
	dob := time.Date(1985, 3, 9, 15, 30, 0, 0, time.UTC)

	p, err := svc.Create(context.Background(), asAdmin, ports.CreateClientInput{Email: "walkin@example.com", DateOfBirth: &dob})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.UserID != nil {
		t.Fatalf("expected unlinked profile, got %v", *p.UserID)
	}
	if p.DateOfBirth == nil || p.DateOfBirth.Format(domain.DateLayout) != "1985-03-09" || p.DateOfBirth.Hour() != 0 {
		t.Fatalf("expected date-only birth date, got %v", p.DateOfBirth)
	}
}

func TestClientService_Update_PartialAndIdempotent(t *testing.T) {
	svc, repo, _ := newClientFixture()
	seedProfile(repo, "c1", "ann@example.com", ptr("user-1"), time.Now())

	patch := domain.ClientPatch{City: ptr("Dallas"), Notes: ptr("likes hot stones")}
	p, err := svc.Update(context.Background(), asClient, "c1", patch)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if p.City != "Dallas" || p.Notes != "likes hot stones" || p.FirstName != "Ann" || p.Email != "ann@example.com" {
		t.Fatalf("unexpected profile after update: %+v", p)
	}
	if repo.updates != 1 {
		t.Fatalf("expected one write, got %d", repo.updates)
	}

	again, err := svc.Update(context.Background(), asClient, "c1", patch)
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}
	if again.City != p.City || again.Notes != p.Notes || repo.updates != 1 {
		t.Fatalf("second update should be a no-op: %+v writes=%d", again, repo.updates)
	}

	if _, err := svc.Update(context.Background(), asOther, "c1", patch); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), asClient, "c1", domain.ClientPatch{Phone: ptr("bogus")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for phone, got %v", err)
	}
}

func TestClientService_Delete(t *testing.T) {
	svc, repo, _ := newClientFixture()
	seedProfile(repo, "c1", "ann@example.com", ptr("user-1"), time.Now())
	seedProfile(repo, "c2", "walkin@example.com", nil, time.Now())

	if err := svc.Delete(context.Background(), asOther, "c1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), asClient, "c2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("client must not delete unlinked profile, got %v", err)
	}
	if err := svc.Delete(context.Background(), asClient, "c1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), asAdmin, "c2"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(repo.clients) != 0 {
		t.Fatalf("expected all profiles deleted, got %d", len(repo.clients))
	}
	if err := svc.Delete(context.Background(), asAdmin, "c1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
