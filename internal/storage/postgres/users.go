package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/finance-be/internal/models"
)

const userColumns = `id, username, full_name, phone_number, password_hash, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, full_name, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Username, user.FullName, user.PhoneNumber, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.PhoneNumber, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
