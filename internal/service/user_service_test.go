package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"account-api/internal/repository"
	"account-api/internal/store/sqlite"
)

func setupRepos(t *testing.T, name string) (repository.UserRepository, repository.CredentialRepository) {
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
	return users, creds
}

func TestUserService_CreateAndDuplicateEmail(t *testing.T) {
	users, _ := setupRepos(t, "usersvc")
	svc := NewUserService(users)
	ctx := context.Background()

	u, err := svc.Create(ctx, "Alice", "a@x.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID <= 0 {
		t.Fatalf("expected positive id, got %d", u.ID)
	}

	if _, err := svc.Create(ctx, "Other Alice", "a@x.com"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Create(ctx, "", "b@x.com"); err == nil {
		t.Fatal("expected validation error for empty name")
	}
	if _, err := svc.Create(ctx, "Bob", ""); err == nil {
		t.Fatal("expected validation error for empty email")
	}
}

func TestUserService_UpdateKeepsOwnEmail(t *testing.T) {
	users, _ := setupRepos(t, "usersvc_upd")
	svc := NewUserService(users)
	ctx := context.Background()

	u, err := svc.Create(ctx, "Alice", "a@x.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// renaming without changing the email is not a conflict
	got, err := svc.Update(ctx, u.ID, "Alicia", "a@x.com")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Alicia" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.Update(ctx, 999, "Ghost", "g@x.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCredentialService_HashesPasswords(t *testing.T) {
	_, creds := setupRepos(t, "credsvc")
	svc := NewCredentialService(creds)
	ctx := context.Background()

	cred, err := svc.Create(ctx, 1, "hunter2hunter2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cred.PasswordHash == "hunter2hunter2" {
		t.Fatal("plaintext password persisted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := svc.Create(ctx, 1, "short"); err == nil {
		t.Fatal("expected validation error for short password")
	}
	if _, err := svc.Create(ctx, 1, ""); err == nil {
		t.Fatal("expected validation error for empty password")
	}
}
