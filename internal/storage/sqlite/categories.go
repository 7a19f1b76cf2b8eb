package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const categoryColumns = `id, name, type, user_id`

// EnsureDefaultCategory inserts a shared category unless one with the same name exists.
func (s *Store) EnsureDefaultCategory(ctx context.Context, name string, typ models.CategoryType) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES (?, ?)
		 ON CONFLICT (name) WHERE user_id IS NULL DO NOTHING`,
		name, string(typ))
	if err != nil {
		return false, fmt.Errorf("ensure default category %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreateCategory inserts a custom category owned by category.Owner.
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, type, user_id) VALUES (?, ?, ?) RETURNING `+categoryColumns,
		category.Name, string(category.Type), ownerArg(category.Owner))
	created, err := scanCategory(row)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return created, nil
}

// ListAccessibleCategories returns defaults plus the user's custom categories.
func (s *Store) ListAccessibleCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE user_id IS NULL OR user_id = ?
		 ORDER BY type, name, user_id IS NOT NULL`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindAccessibleCategoryByName resolves a name the user may reference.
func (s *Store) FindAccessibleCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE name = ? AND (user_id = ? OR user_id IS NULL)
		 ORDER BY (user_id IS NULL)
		 LIMIT 1`, name, userID)
	c, err := scanCategory(row)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// FindCustomCategoryByName resolves one of the user's own categories.
func (s *Store) FindCustomCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND name = ?`, userID, name)
	c, err := scanCategory(row)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return c, nil
}

// UpdateCategory renames or retypes a custom category.
func (s *Store) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	userID, ok := category.Owner.UserID()
	if !ok {
		return models.Category{}, storage.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ? AND user_id = ? RETURNING `+categoryColumns,
		category.Name, string(category.Type), category.ID, userID)
	updated, err := scanCategory(row)
	if err != nil {
		return models.Category{}, mapError(err)
	}
	return updated, nil
}

// DeleteCategory removes a custom category. Referenced categories yield storage.ErrInUse.
func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return mapError(fmt.Errorf("delete category: %w", err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CategoryInUse reports whether any transaction references the category.
func (s *Store) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = ?)`, id).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("check category usage: %w", err)
	}
	return used, nil
}

func ownerArg(owner models.CategoryOwner) sql.NullInt64 {
	id, ok := owner.UserID()
	return sql.NullInt64{Int64: id, Valid: ok}
}

func scanCategory(row scanner) (models.Category, error) {
	var (
		c      models.Category
		typ    string
		userID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &userID); err != nil {
		return models.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Type = models.CategoryType(typ)
	if userID.Valid {
		c.Owner = models.CustomOwner(userID.Int64)
	}
	return c, nil
}
