package repository

import (
	"context"
	"errors"
	"time"

	"account-api/internal/domain"
)

// ErrNotFound is returned when a lookup matches no rows. It is derived from
// an empty result set, never from an engine error.
var ErrNotFound = errors.New("record not found")

// queryTimeout bounds every repository call.
const queryTimeout = 5 * time.Second

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// CredentialRepository defines persistence operations for Credential entities.
type CredentialRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Credential, error)
	GetByID(ctx context.Context, id int64) (*domain.Credential, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (int64, error)
	Update(ctx context.Context, cred *domain.Credential) error
	Delete(ctx context.Context, id int64) error
}
