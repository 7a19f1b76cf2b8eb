package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, c.name, c.type, t.amount, t.tx_date, t.description, t.created_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// CreateTransaction inserts a transaction and returns it joined with its category.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, tx_date, description)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		tx.UserID, tx.CategoryID, tx.Amount.StringFixed(2), tx.Date.String(), tx.Description,
	).Scan(&id)
	if err != nil {
		return models.Transaction{}, mapError(fmt.Errorf("insert transaction: %w", err))
	}
	return s.FindTransaction(ctx, tx.UserID, id)
}

// FindTransaction fetches a transaction owned by userID.
func (s *Store) FindTransaction(ctx context.Context, userID, id int64) (models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ? AND t.user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, mapError(err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching filter, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID int64, filter storage.TransactionFilter) ([]models.Transaction, error) {
	conds := []string{"t.user_id = ?"}
	args := []any{userID}
	if filter.StartDate != nil {
		conds = append(conds, "t.tx_date >= ?")
		args = append(args, filter.StartDate.String())
	}
	if filter.EndDate != nil {
		conds = append(conds, "t.tx_date <= ?")
		args = append(args, filter.EndDate.String())
	}
	if filter.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.CategoryType != "" {
		conds = append(conds, "c.type = ?")
		args = append(args, string(filter.CategoryType))
	}

	query := transactionSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY t.tx_date DESC, t.id DESC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTransaction rewrites amount, category and description. The date is immutable.
func (s *Store) UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, amount = ?, description = ? WHERE id = ? AND user_id = ?`,
		tx.CategoryID, tx.Amount.StringFixed(2), tx.Description, tx.ID, tx.UserID)
	if err != nil {
		return models.Transaction{}, mapError(fmt.Errorf("update transaction: %w", err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Transaction{}, err
	} else if n == 0 {
		return models.Transaction{}, storage.ErrNotFound
	}
	return s.FindTransaction(ctx, tx.UserID, tx.ID)
}

// DeleteTransaction removes a transaction owned by userID.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTransaction(row scanner) (models.Transaction, error) {
	var (
		t                 models.Transaction
		typ, amount, date string
		created           int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &typ, &amount, &date, &t.Description, &created); err != nil {
		return models.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Date, err = models.ParseDate(date); err != nil {
		return models.Transaction{}, err
	}
	t.CategoryType = models.CategoryType(typ)
	t.CreatedAt = time.Unix(created, 0).UTC()
	return t, nil
}
