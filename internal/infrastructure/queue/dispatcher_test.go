package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	block  chan struct{}
	err    error
}

func (s *recordingService) Process(_ context.Context, e domain.ActivityEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingService) snapshot() []domain.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ActivityEvent(nil), s.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	types := []domain.ActivityType{domain.ActivityRegister, domain.ActivityLoginFailure, domain.ActivityLoginSuccess}
	for _, typ := range types {
		d.Record(domain.ActivityEvent{Type: typ, UserID: "u1"})
		d.Record(domain.ActivityEvent{Type: typ, UserID: "u2"})
	}

	waitFor(t, func() bool { return len(svc.snapshot()) == 6 })

	var u1 []domain.ActivityType
	for _, e := range svc.snapshot() {
		if e.UserID == "u1" {
			u1 = append(u1, e.Type)
		}
	}
	for i := range types {
		if u1[i] != types[i] {
			t.Fatalf("order not preserved for u1: %v", u1)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	for _, key := range []string{"u1", "a@x.com", ""} {
		first := d.shardIndex(key)
		if first < 0 || first >= 8 {
			t.Fatalf("index out of range: %d", first)
		}
		if d.shardIndex(key) != first {
			t.Fatalf("shard index for %q is not deterministic", key)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	d := NewDispatcher(1, svc, zerolog.Nop())

	// Not started: nothing drains the channel.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.ActivityEvent{Type: domain.ActivityLoginFailure, Email: "a@x.com"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	svc := &recordingService{err: errors.New("store down")}
	d := NewDispatcher(2, svc, zerolog.Nop())
	for i := 0; i < 5; i++ {
		d.Record(domain.ActivityEvent{Type: domain.ActivityLoginSuccess, UserID: "u1"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not stop")
	}
	if got := len(svc.snapshot()); got != 5 {
		t.Fatalf("expected all buffered events processed, got %d", got)
	}
}
