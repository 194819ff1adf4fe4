package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

func TestActivityService_Process_FillsDefaults(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.ActivityEvent{Type: domain.ActivityLoginSuccess, UserID: "u1"}); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
	e := repo.inserted[0]
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", e)
	}
}

func TestActivityService_Process_RepoError(t *testing.T) {
	boom := errors.New("insert failed")
	svc := NewActivityService(&stubActivityRepo{insertErr: boom}, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.ActivityEvent{Type: domain.ActivityRegister}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
