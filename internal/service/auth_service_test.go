package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"account-api/internal/domain"
	"account-api/internal/repository"
	"account-api/internal/store/sqlite"
)

func setupAuth(t *testing.T, name, secret string) (AuthService, CredentialService, *domain.User) {
	t.Helper()
	s, err := sqlite.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	users := repository.NewUserRepository(s)
	creds := repository.NewCredentialRepository(s)
	if err := users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := creds.Init(ctx); err != nil {
		t.Fatalf("init creds: %v", err)
	}

	user := &domain.User{Name: "Alice", Email: "a@x.com"}
	if _, err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	credSvc := NewCredentialService(creds)
	if _, err := credSvc.Create(ctx, user.ID, "correct horse"); err != nil {
		t.Fatalf("create credential: %v", err)
	}

	return NewAuthService(users, creds, secret, time.Hour), credSvc, user
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	auth, _, user := setupAuth(t, "auth_ok", "test-secret")
	ctx := context.Background()

	token, err := auth.Login(ctx, "a@x.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	userID, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, userID)
	}
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	auth, _, _ := setupAuth(t, "auth_bad", "test-secret")
	ctx := context.Background()

	if _, err := auth.Login(ctx, "a@x.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "nobody@x.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_RejectsTamperedToken(t *testing.T) {
	auth, _, _ := setupAuth(t, "auth_tamper", "test-secret")
	other, _, _ := setupAuth(t, "auth_other", "other-secret")
	ctx := context.Background()

	token, err := auth.Login(ctx, "a@x.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
	if _, err := auth.Verify(token + "x"); err == nil {
		t.Fatal("mangled token verified")
	}
}

func TestAuthService_Disabled(t *testing.T) {
	auth, _, _ := setupAuth(t, "auth_disabled", "")
	ctx := context.Background()

	if auth.Enabled() {
		t.Fatal("expected disabled auth")
	}
	if _, err := auth.Login(ctx, "a@x.com", "correct horse"); !errors.Is(err, ErrAuthDisabled) {
		t.Fatalf("expected ErrAuthDisabled, got %v", err)
	}
}
