package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

type stubClientService struct {
	listFn   func(ctx context.Context, id domain.Identity, in ports.ListClientsInput) (*ports.ListClientsResult, error)
	getFn    func(ctx context.Context, id domain.Identity, clientID string) (*ports.ClientDetail, error)
	createFn func(ctx context.Context, id domain.Identity, in ports.CreateClientInput) (*domain.ClientProfile, error)
	updateFn func(ctx context.Context, id domain.Identity, clientID string, patch domain.ClientPatch) (*domain.ClientProfile, error)
	deleteFn func(ctx context.Context, id domain.Identity, clientID string) error
}

func (s *stubClientService) List(ctx context.Context, id domain.Identity, in ports.ListClientsInput) (*ports.ListClientsResult, error) {
	return s.listFn(ctx, id, in)
}

func (s *stubClientService) Get(ctx context.Context, id domain.Identity, clientID string) (*ports.ClientDetail, error) {
	return s.getFn(ctx, id, clientID)
}

func (s *stubClientService) Create(ctx context.Context, id domain.Identity, in ports.CreateClientInput) (*domain.ClientProfile, error) {
	return s.createFn(ctx, id, in)
}

func (s *stubClientService) Update(ctx context.Context, id domain.Identity, clientID string, patch domain.ClientPatch) (*domain.ClientProfile, error) {
	return s.updateFn(ctx, id, clientID, patch)
}

func (s *stubClientService) Delete(ctx context.Context, id domain.Identity, clientID string) error {
	return s.deleteFn(ctx, id, clientID)
}

var (
	adminIdentity  = domain.Identity{UserID: "admin-1", Email: "admin@x.com", Role: domain.RoleAdmin}
	clientIdentity = domain.Identity{UserID: "u1", Email: "a@x.com", Role: domain.RoleClient}
)

func sampleProfile() *domain.ClientProfile {
	owner := "u1"
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	return &domain.ClientProfile{
		ID:          "c1",
		UserID:      &owner,
		Email:       "a@x.com",
		FirstName:   "Ana",
		LastName:    "Diaz",
		City:        "Austin",
		DateOfBirth: &dob,
	}
}

func TestClientHandler_List(t *testing.T) {
	e := newEcho()
	handler := NewClientHandler(&stubClientService{
		listFn: func(_ context.Context, id domain.Identity, in ports.ListClientsInput) (*ports.ListClientsResult, error) {
			if in.Search != "ana" || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListClientsResult{
				Items: []ports.ClientDetail{{
					Profile: sampleProfile(),
					User:    &ports.UserSummary{ID: "u1", Email: "a@x.com", Role: domain.RoleClient, Active: true},
				}},
				Total: 6, Page: 2, Limit: 5, TotalPages: 2,
			}, nil
		},
	})

	c, rec := authedContext(e, adminIdentity, http.MethodGet, "/api/v1/clients?search=ana&page=2&limit=5", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	clients, _ := resp["clients"].([]any)
	if len(clients) != 1 {
		t.Fatalf("expected one client, got %v", resp["clients"])
	}
	first := clients[0].(map[string]any)
	if first["dateOfBirth"] != "1990-05-17" {
		t.Fatalf("unexpected dateOfBirth: %v", first["dateOfBirth"])
	}
	if user, _ := first["user"].(map[string]any); user["email"] != "a@x.com" {
		t.Fatalf("expected linked user summary, got %v", first["user"])
	}
	pagination := resp["pagination"].(map[string]any)
	if pagination["totalPages"] != float64(2) || pagination["total"] != float64(6) {
		t.Fatalf("unexpected pagination: %v", pagination)
	}
}

func TestClientHandler_Get_PropagatesForbidden(t *testing.T) {
	e := newEcho()
	handler := NewClientHandler(&stubClientService{
		getFn: func(context.Context, domain.Identity, string) (*ports.ClientDetail, error) {
			return nil, domain.ErrForbidden
		},
	})

	c, _ := authedContext(e, clientIdentity, http.MethodGet, "/api/v1/clients/c2", "")
	c.SetParamNames("id")
	c.SetParamValues("c2")
	if err := handler.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestClientHandler_Create(t *testing.T) {
	e := newEcho()
	handler := NewClientHandler(&stubClientService{
		createFn: func(_ context.Context, id domain.Identity, in ports.CreateClientInput) (*domain.ClientProfile, error) {
			if id != clientIdentity {
				t.Fatalf("unexpected identity: %+v", id)
			}
			if in.UserID != nil {
				t.Fatalf("expected nil user id, got %v", *in.UserID)
			}
			if in.DateOfBirth == nil || in.DateOfBirth.Format(domain.DateLayout) != "1990-05-17" {
				t.Fatalf("unexpected dateOfBirth: %v", in.DateOfBirth)
			}
			return sampleProfile(), nil
		},
	})

	c, rec := authedContext(e, clientIdentity, http.MethodPost, "/api/v1/clients",
		`{"email":"a@x.com","firstName":"Ana","dateOfBirth":"1990-05-17","phone":"+1 202 456 1111"}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Client created successfully" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestClientHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	handler := NewClientHandler(&stubClientService{})

	c, _ := authedContext(e, clientIdentity, http.MethodPost, "/api/v1/clients",
		`{"email":"nope","dateOfBirth":"17/05/1990","phone":"12"}`)
	err := handler.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
}

func TestClientHandler_Update_PartialPatch(t *testing.T) {
	e := newEcho()
	handler := NewClientHandler(&stubClientService{
		updateFn: func(_ context.Context, _ domain.Identity, clientID string, patch domain.ClientPatch) (*domain.ClientProfile, error) {
			if clientID != "c1" {
				t.Fatalf("unexpected id %s", clientID)
			}
			if patch.City == nil || *patch.City != "Denver" {
				t.Fatalf("expected city set, got %v", patch.City)
			}
			if patch.Notes == nil || *patch.Notes != "" {
				t.Fatalf("expected notes cleared, got %v", patch.Notes)
			}
			if patch.FirstName != nil || patch.DateOfBirth != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			p := sampleProfile()
			p.City = "Denver"
			return p, nil
		},
	})

	c, rec := authedContext(e, clientIdentity, http.MethodPut, "/api/v1/clients/c1", `{"city":"Denver","notes":""}`)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	e := newEcho()
	deleted := ""
	handler := NewClientHandler(&stubClientService{
		deleteFn: func(_ context.Context, _ domain.Identity, clientID string) error {
			deleted = clientID
			return nil
		},
	})

	c, rec := authedContext(e, adminIdentity, http.MethodDelete, "/api/v1/clients/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "c1" || decode(t, rec)["message"] != "Client deleted successfully" {
		t.Fatalf("unexpected delete result: %s %s", deleted, rec.Body.String())
	}
}

func TestOutcome(t *testing.T) {
	cases := map[error]string{
		domain.ErrForbidden:                       "forbidden",
		domain.ErrClientNotFound:                  "not_found",
		domain.NewValidationError("email", "bad"): "invalid",
		domain.ErrDuplicateProfile:                "conflict",
		errors.New("db down"):                     "error",
	}
	for err, want := range cases {
		if got := outcome(err); got != want {
			t.Fatalf("%v: expected %s, got %s", err, want, got)
		}
	}
	if outcome(nil) != "ok" {
		t.Fatalf("expected ok for nil")
	}
}
