package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, c.name, c.type, t.amount::text, t.tx_date, t.description, t.created_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// CreateTransaction inserts a transaction and returns it joined with its category.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, tx_date, description)
		 VALUES ($1, $2, $3::numeric, $4, $5)
		 RETURNING id`,
		tx.UserID, tx.CategoryID, tx.Amount.StringFixed(2), tx.Date.Time, tx.Description,
	).Scan(&id)
	if err != nil {
		return models.Transaction{}, mapError(fmt.Errorf("insert transaction: %w", err))
	}
	return s.FindTransaction(ctx, tx.UserID, id)
}

// FindTransaction fetches a transaction owned by userID.
func (s *Store) FindTransaction(ctx context.Context, userID, id int64) (models.Transaction, error) {
	row := s.pool.QueryRow(ctx, transactionSelect+` WHERE t.id = $1 AND t.user_id = $2`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, mapError(err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching filter, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID int64, filter storage.TransactionFilter) ([]models.Transaction, error) {
	conds := []string{"t.user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.StartDate != nil {
		add("t.tx_date >= $%d", filter.StartDate.Time)
	}
	if filter.EndDate != nil {
		add("t.tx_date <= $%d", filter.EndDate.Time)
	}
	if filter.CategoryID != nil {
		add("t.category_id = $%d", *filter.CategoryID)
	}
	if filter.CategoryType != "" {
		add("c.type = $%d", string(filter.CategoryType))
	}

	query := transactionSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY t.tx_date DESC, t.id DESC`
	rows, err := s.pool.Query(ctx, query, args...)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET category_id = $3, amount = $4::numeric, description = $5
		 WHERE id = $1 AND user_id = $2`,
		tx.ID, tx.UserID, tx.CategoryID, tx.Amount.StringFixed(2), tx.Description)
	if err != nil {
		return models.Transaction{}, mapError(fmt.Errorf("update transaction: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return models.Transaction{}, storage.ErrNotFound
	}
	return s.FindTransaction(ctx, tx.UserID, tx.ID)
}

// DeleteTransaction removes a transaction owned by userID.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		t      models.Transaction
		typ    string
		amount string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &typ, &amount, &t.Date.Time, &t.Description, &t.CreatedAt); err != nil {
		return models.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Amount = dec
	t.CategoryType = models.CategoryType(typ)
	t.Date = models.DateOf(t.Date.Time)
	return t, nil
}
