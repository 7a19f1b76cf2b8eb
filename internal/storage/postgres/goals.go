package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const goalColumns = `id, user_id, goal_name, target_amount::text, target_date, start_date, current_progress::text, created_at`

// CreateGoal inserts a goal together with its initial progress snapshot.
func (s *Store) CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, goal_name, target_amount, target_date, start_date, current_progress)
		 VALUES ($1, $2, $3::numeric, $4, $5, $6::numeric)
		 RETURNING `+goalColumns,
		goal.UserID, goal.Name, goal.TargetAmount.StringFixed(2), goal.TargetDate.Time, goal.StartDate.Time,
		goal.CurrentProgress.StringFixed(2))
	created, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return created, nil
}

// FindGoal fetches a goal owned by userID.
func (s *Store) FindGoal(ctx context.Context, userID, id int64) (models.Goal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return g, nil
}

// ListGoals returns the user's goals in creation order.
func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoal rewrites the editable goal fields and the progress snapshot.
func (s *Store) UpdateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE goals SET goal_name = $3, target_amount = $4::numeric, target_date = $5, current_progress = $6::numeric
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount.StringFixed(2), goal.TargetDate.Time,
		goal.CurrentProgress.StringFixed(2))
	updated, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return updated, nil
}

// UpdateGoalProgress stores a freshly computed progress value.
func (s *Store) UpdateGoalProgress(ctx context.Context, userID, id int64, progress decimal.Decimal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET current_progress = $3::numeric WHERE id = $1 AND user_id = $2`,
		id, userID, progress.StringFixed(2))
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal owned by userID.
func (s *Store) DeleteGoal(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanGoal(row pgx.Row) (models.Goal, error) {
	var (
		g                models.Goal
		target, progress string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &g.TargetDate.Time, &g.StartDate.Time, &progress, &g.CreatedAt); err != nil {
		return models.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return models.Goal{}, fmt.Errorf("parse target amount %q: %w", target, err)
	}
	if g.CurrentProgress, err = decimal.NewFromString(progress); err != nil {
		return models.Goal{}, fmt.Errorf("parse progress %q: %w", progress, err)
	}
	g.TargetDate = models.DateOf(g.TargetDate.Time)
	g.StartDate = models.DateOf(g.StartDate.Time)
	return g, nil
}
