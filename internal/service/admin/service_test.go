package admin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"featherlite/internal/domain"
	"featherlite/internal/ratelimit"
)

func sha256Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func newTestService(passwordHash string) *Service {
	limiter := ratelimit.NewMemory(5, time.Minute)
	return New("moderator@featherlite.test", passwordHash, testSecret, limiter, nil)
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(sha256Hash("opensesame"))
	token, session, err := svc.Login(context.Background(), "1.2.3.4", "moderator@featherlite.test", "opensesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if session.Email != "moderator@featherlite.test" {
		t.Fatalf("unexpected session email %q", session.Email)
	}
	if got, ok := svc.Verify(token); !ok || got.Email != session.Email {
		t.Fatalf("expected issued token to verify, got %+v ok=%v", got, ok)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(sha256Hash("opensesame"))
	if _, _, err := svc.Login(context.Background(), "1.2.3.4", "MODERATOR@Featherlite.Test", "opensesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(sha256Hash("opensesame"))
	_, _, err := svc.Login(context.Background(), "1.2.3.4", "moderator@featherlite.test", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginSaltedHash(t *testing.T) {
	sum := sha256.Sum256([]byte("pepper" + "opensesame"))
	svc := newTestService("sha256:pepper:" + hex.EncodeToString(sum[:]))
	if _, _, err := svc.Login(context.Background(), "1.2.3.4", "moderator@featherlite.test", "opensesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLoginPlainScheme(t *testing.T) {
	svc := newTestService("plain:opensesame")
	if _, _, err := svc.Login(context.Background(), "1.2.3.4", "moderator@featherlite.test", "opensesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	svc := newTestService(sha256Hash("opensesame"))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.Login(ctx, "9.9.9.9", "moderator@featherlite.test", "wrong")
	}
	// Sixth attempt is rejected even with the correct credentials.
	_, _, err := svc.Login(ctx, "9.9.9.9", "moderator@featherlite.test", "opensesame")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	// A different identifier is unaffected.
	if _, _, err := svc.Login(ctx, "8.8.8.8", "moderator@featherlite.test", "opensesame"); err != nil {
		t.Fatalf("other identifier: %v", err)
	}
}

func TestLoginUnconfigured(t *testing.T) {
	limiter := ratelimit.NewMemory(5, time.Minute)
	svc := New("", "", "short", limiter, nil)
	_, _, err := svc.Login(context.Background(), "1.2.3.4", "anyone@featherlite.test", "whatever")
	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(sha256Hash("opensesame"))
	if _, ok := svc.Verify("garbage"); ok {
		t.Fatal("expected garbage token to fail")
	}
}
