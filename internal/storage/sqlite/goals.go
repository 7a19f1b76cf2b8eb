package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const goalColumns = `id, user_id, goal_name, target_amount, target_date, start_date, current_progress, created_at`

// CreateGoal inserts a goal together with its initial progress snapshot.
func (s *Store) CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO goals (user_id, goal_name, target_amount, target_date, start_date, current_progress)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+goalColumns,
		goal.UserID, goal.Name, goal.TargetAmount.StringFixed(2), goal.TargetDate.String(), goal.StartDate.String(),
		goal.CurrentProgress.StringFixed(2))
	created, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return created, nil
}

// FindGoal fetches a goal owned by userID.
func (s *Store) FindGoal(ctx context.Context, userID, id int64) (models.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return g, nil
}

// ListGoals returns the user's goals in creation order.
func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY id`, userID)
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
	row := s.db.QueryRowContext(ctx,
		`UPDATE goals SET goal_name = ?, target_amount = ?, target_date = ?, current_progress = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+goalColumns,
		goal.Name, goal.TargetAmount.StringFixed(2), goal.TargetDate.String(), goal.CurrentProgress.StringFixed(2),
		goal.ID, goal.UserID)
	updated, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, mapError(err)
	}
	return updated, nil
}

// UpdateGoalProgress stores a freshly computed progress value.
func (s *Store) UpdateGoalProgress(ctx context.Context, userID, id int64, progress decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET current_progress = ? WHERE id = ? AND user_id = ?`,
		progress.StringFixed(2), id, userID)
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal owned by userID.
func (s *Store) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanGoal(row scanner) (models.Goal, error) {
	var (
		g                              models.Goal
		target, progress, tdate, sdate string
		created                        int64
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &tdate, &sdate, &progress, &created); err != nil {
		return models.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return models.Goal{}, fmt.Errorf("parse target amount %q: %w", target, err)
	}
	if g.CurrentProgress, err = decimal.NewFromString(progress); err != nil {
		return models.Goal{}, fmt.Errorf("parse progress %q: %w", progress, err)
	}
	if g.TargetDate, err = models.ParseDate(tdate); err != nil {
		return models.Goal{}, err
	}
	if g.StartDate, err = models.ParseDate(sdate); err != nil {
		return models.Goal{}, err
	}
	g.CreatedAt = time.Unix(created, 0).UTC()
	return g, nil
}
