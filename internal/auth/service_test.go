package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewService(cache, time.Hour), mr
}

func TestSessionRoundTrip(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	session, err := svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected opaque token")
	}

	account, err := svc.Resolve(ctx, session.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if account != "alice" {
		t.Fatalf("expected alice, got %s", account)
	}

	if err := svc.Destroy(ctx, session.Token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := svc.Resolve(ctx, session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	svc, mr := newSessionService(t)
	ctx := context.Background()

	session, err := svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := svc.Resolve(ctx, session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestResolveEmptyToken(t *testing.T) {
	svc, _ := newSessionService(t)

	if _, err := svc.Resolve(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
