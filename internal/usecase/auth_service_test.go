package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/courtside-sync/internal/platform/cache"
	idgen "github.com/riskibarqy/courtside-sync/internal/platform/id"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestAuthService(t *testing.T) (*AuthService, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	sessions := cache.NewStore(0, cache.WithClock(clock.Now))
	service := NewAuthService(
		AuthConfig{Username: "admin", Password: "admin123", SessionTTL: 24 * time.Hour},
		sessions,
		idgen.NewSizedGenerator(idgen.TokenSize),
		logging.NewNop(),
	)
	return service, clock
}

func TestAuthService_LoginValidateLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, clock := newTestAuthService(t)

	session, err := service.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(session.Token) != idgen.TokenSize*2 {
		t.Fatalf("unexpected token length %d", len(session.Token))
	}
	if !session.ExpiresAt.Equal(clock.Now().Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry %s", session.ExpiresAt)
	}
	if !service.Validate(ctx, session.Token) {
		t.Fatalf("expected fresh token to validate")
	}

	if !service.Logout(ctx, session.Token) {
		t.Fatalf("expected logout to remove session")
	}
	if service.Validate(ctx, session.Token) {
		t.Fatalf("expected token to be invalid after logout")
	}
	if service.Logout(ctx, session.Token) {
		t.Fatalf("expected second logout to be a no-op")
	}
}

func TestAuthService_SessionExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, clock := newTestAuthService(t)

	session, err := service.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.Advance(24*time.Hour - time.Second)
	if !service.Validate(ctx, session.Token) {
		t.Fatalf("expected token to validate before ttl")
	}

	clock.Advance(time.Second)
	if service.Validate(ctx, session.Token) {
		t.Fatalf("expected token to expire after ttl")
	}
	if _, err := service.VerifySession(ctx, session.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	if got := service.ActiveSessions(); got != 0 {
		t.Fatalf("expected no active sessions, got %d", got)
	}
}

func TestAuthService_LoginRejectsMismatch(t *testing.T) {
	t.Parallel()

	service, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "admin"},
		{name: "wrong username", username: "root", password: "admin123"},
		{name: "empty", username: "", password: ""},
		{name: "padded username", username: " admin", password: "admin123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Login(context.Background(), tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_VerifySessionRejectsUnknownTokens(t *testing.T) {
	t.Parallel()

	service, _ := newTestAuthService(t)

	for _, token := range []string{"", "   ", "deadbeef"} {
		if _, err := service.VerifySession(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("token %q: expected ErrSessionInvalid, got %v", token, err)
		}
	}
}
