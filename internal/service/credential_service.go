package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

// CredentialService describes password lifecycle operations. Plaintext
// passwords never leave this layer; only bcrypt hashes are persisted.
type CredentialService interface {
	List(ctx context.Context) ([]domain.Credential, error)
	Get(ctx context.Context, id int64) (*domain.Credential, error)
	Create(ctx context.Context, userID int64, password string) (*domain.Credential, error)
	Update(ctx context.Context, id int64, password string) (*domain.Credential, error)
	Delete(ctx context.Context, id int64) error
}

type credentialService struct {
	creds repository.CredentialRepository
}

func NewCredentialService(creds repository.CredentialRepository) CredentialService {
	return &credentialService{creds: creds}
}

func (s *credentialService) List(ctx context.Context) ([]domain.Credential, error) {
	return s.creds.List(ctx)
}

func (s *credentialService) Get(ctx context.Context, id int64) (*domain.Credential, error) {
	return s.creds.GetByID(ctx, id)
}

func (s *credentialService) Create(ctx context.Context, userID int64, password string) (*domain.Credential, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{UserID: userID, PasswordHash: hash}
	if _, err := s.creds.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

func (s *credentialService) Update(ctx context.Context, id int64, password string) (*domain.Credential, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{ID: id, PasswordHash: hash}
	if err := s.creds.Update(ctx, cred); err != nil {
		return nil, err
	}
	return s.creds.GetByID(ctx, id)
}

func (s *credentialService) Delete(ctx context.Context, id int64) error {
	return s.creds.Delete(ctx, id)
}

func hashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", errors.New("password is required")
	}
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
