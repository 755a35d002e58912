package repository

import (
	"context"
	"fmt"

	"account-api/internal/domain"
	"account-api/internal/store"
)

const createPasswordsTable = `
CREATE TABLE IF NOT EXISTS passwords (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	password_hash TEXT NOT NULL,
	user_id INTEGER NOT NULL
);
`

const passwordsTable = "passwords"

var credentialColumns = []string{"id", "password_hash", "user_id"}

type credentialRepository struct {
	store store.Store
}

// NewCredentialRepository returns a CredentialRepository backed by the given store.
func NewCredentialRepository(s store.Store) CredentialRepository {
	return &credentialRepository{store: s}
}

func (r *credentialRepository) Init(ctx context.Context) error {
	if err := r.store.Exec(ctx, createPasswordsTable); err != nil {
		return fmt.Errorf("create passwords table: %w", err)
	}
	return nil
}

func (r *credentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.store.Select(ctx, passwordsTable, credentialColumns, nil)
	if err != nil {
		return nil, fmt.Errorf("list passwords: %w", err)
	}

	creds := make([]domain.Credential, len(rows))
	for i, row := range rows {
		creds[i] = credentialFromRow(row)
	}
	return creds, nil
}

func (r *credentialRepository) GetByID(ctx context.Context, id int64) (*domain.Credential, error) {
	return r.getOne(ctx, store.Fields{store.F("id", id)})
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Credential, error) {
	return r.getOne(ctx, store.Fields{store.F("user_id", userID)})
}

func (r *credentialRepository) getOne(ctx context.Context, filters store.Fields) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.store.Select(ctx, passwordsTable, credentialColumns, filters)
	if err != nil {
		return nil, fmt.Errorf("select password: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	cred := credentialFromRow(rows[0])
	return &cred, nil
}

func (r *credentialRepository) Create(ctx context.Context, cred *domain.Credential) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := r.store.Insert(ctx, passwordsTable, store.Fields{
		store.F("password_hash", cred.PasswordHash),
		store.F("user_id", cred.UserID),
	})
	if err != nil {
		return 0, err
	}
	cred.ID = id
	return id, nil
}

func (r *credentialRepository) Update(ctx context.Context, cred *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	affected, err := r.store.Update(ctx, passwordsTable,
		store.Fields{store.F("password_hash", cred.PasswordHash)},
		store.Fields{store.F("id", cred.ID)},
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *credentialRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	affected, err := r.store.Delete(ctx, passwordsTable, store.Fields{store.F("id", id)})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func credentialFromRow(row store.Row) domain.Credential {
	return domain.Credential{
		ID:           row.Int64("id"),
		UserID:       row.Int64("user_id"),
		PasswordHash: row.String("password_hash"),
	}
}
