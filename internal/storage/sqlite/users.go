package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/hongminglow/finance-be/internal/models"
)

const userColumns = `id, username, full_name, phone_number, password_hash, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, full_name, phone_number, password_hash) VALUES (?, ?, ?, ?)
		 RETURNING `+userColumns,
		user.Username, user.FullName, user.PhoneNumber, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func scanUser(row scanner) (models.User, error) {
	var (
		user    models.User
		created int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.PhoneNumber, &user.PasswordHash, &created); err != nil {
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = time.Unix(created, 0).UTC()
	return user, nil
}
