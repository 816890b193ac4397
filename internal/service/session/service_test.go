package session

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"vibestation/internal/config"
	"vibestation/internal/repository/record"
)

func newTestService(t *testing.T, admin config.AdminConfig) (*Service, record.Repository) {
	t.Helper()
	store := record.NewMemory()
	svc, err := New(store, admin, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return svc, store
}

func TestLoginLogout(t *testing.T) {
	svc, store := newTestService(t, config.AdminConfig{User: "admin", Password: "s3cret"})
	ctx := context.Background()

	if active, err := svc.Status(ctx); err != nil || active {
		t.Fatalf("expected inactive session, got %v %v", active, err)
	}

	if err := svc.Login(ctx, "admin", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if v, _ := store.Load(ctx, record.KeySession); v != "true" {
		t.Fatalf("expected flag \"true\", got %q", v)
	}
	if active, _ := svc.Status(ctx); !active {
		t.Fatalf("expected active session")
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if active, _ := svc.Status(ctx); active {
		t.Fatalf("expected inactive session after logout")
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t, config.AdminConfig{User: "admin", Password: "s3cret"})
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "s3cret"},
		{"", ""},
	} {
		if err := svc.Login(ctx, tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s/%s: expected ErrInvalidCredentials, got %v", tc.user, tc.pass, err)
		}
	}
	if active, _ := svc.Status(ctx); active {
		t.Fatalf("rejected login must not set the flag")
	}
}

func TestLogin_WithHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc, _ := newTestService(t, config.AdminConfig{User: "admin", PasswordHash: string(hash), Password: "ignored"})

	if err := svc.Login(context.Background(), "admin", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Login(context.Background(), "admin", "ignored"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("plain password should not apply when a hash is set, got %v", err)
	}
}

func TestLogin_Disabled(t *testing.T) {
	svc, _ := newTestService(t, config.AdminConfig{User: "admin"})

	if err := svc.Login(context.Background(), "admin", ""); !errors.Is(err, ErrLoginDisabled) {
		t.Fatalf("expected ErrLoginDisabled, got %v", err)
	}
}

func TestNew_RejectsBadHash(t *testing.T) {
	if _, err := New(record.NewMemory(), config.AdminConfig{User: "admin", PasswordHash: "plain"}, nil); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestStatus_IgnoresOtherValues(t *testing.T) {
	svc, store := newTestService(t, config.AdminConfig{User: "admin", Password: "x"})
	_ = store.Save(context.Background(), record.KeySession, "yes")

	if active, _ := svc.Status(context.Background()); active {
		t.Fatalf("only \"true\" counts as active")
	}
}
