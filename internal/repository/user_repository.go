package repository

import (
	"context"
	"fmt"

	"account-api/internal/domain"
	"account-api/internal/store"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE
);
`

const usersTable = "users"

// Columns are always projected explicitly so rows map by name, never by
// physical column position.
var userColumns = []string{"id", "name", "email"}

type userRepository struct {
	store store.Store
}

// NewUserRepository returns a UserRepository backed by the given store.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Init(ctx context.Context) error {
	if err := r.store.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.store.Select(ctx, usersTable, userColumns, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = userFromRow(row)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, store.Fields{store.F("id", id)})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, store.Fields{store.F("email", email)})
}

func (r *userRepository) getOne(ctx context.Context, filters store.Fields) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.store.Select(ctx, usersTable, userColumns, filters)
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	user := userFromRow(rows[0])
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := r.store.Insert(ctx, usersTable, store.Fields{
		store.F("name", user.Name),
		store.F("email", user.Email),
	})
	if err != nil {
		return 0, err
	}
	user.ID = id
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	affected, err := r.store.Update(ctx, usersTable,
		store.Fields{
			store.F("name", user.Name),
			store.F("email", user.Email),
		},
		store.Fields{store.F("id", user.ID)},
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	affected, err := r.store.Delete(ctx, usersTable, store.Fields{store.F("id", id)})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func userFromRow(row store.Row) domain.User {
	return domain.User{
		ID:    row.Int64("id"),
		Name:  row.String("name"),
		Email: row.String("email"),
	}
}
