package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/finance"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const maxGoalName = 100

// GoalInput creates a goal. A zero StartDate means today.
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   models.Date
	StartDate    models.Date
}

// GoalUpdate edits a goal. Nil fields keep their current value.
type GoalUpdate struct {
	Name         *string
	TargetAmount *decimal.Decimal
	TargetDate   *models.Date
}

// GoalView is a goal with freshly computed progress and its display fields.
type GoalView struct {
	models.Goal
	Remaining  decimal.Decimal
	Percentage string
}

// GoalService manages savings goals and keeps their progress current.
type GoalService struct {
	goals  storage.GoalStore
	txs    storage.TransactionStore
	events events.Publisher
	clock  Clock
}

// NewGoalService constructs the service.
func NewGoalService(goals storage.GoalStore, txs storage.TransactionStore, publisher events.Publisher, clock Clock) *GoalService {
	return &GoalService{goals: goals, txs: txs, events: publisher, clock: clock}
}

// Create stores a new goal with its progress as of today.
func (s *GoalService) Create(ctx context.Context, userID int64, in GoalInput) (GoalView, error) {
	today := s.clock.Today()
	name, err := validGoalName(in.Name)
	if err != nil {
		return GoalView{}, err
	}
	target, err := validAmount(in.TargetAmount, "target amount")
	if err != nil {
		return GoalView{}, err
	}
	start := in.StartDate
	if start.IsZero() {
		start = today
	}
	if err := validGoalDates(start, in.TargetDate, today); err != nil {
		return GoalView{}, err
	}

	txs, err := s.window(ctx, userID, start, today)
	if err != nil {
		return GoalView{}, err
	}
	progress := finance.GoalProgress(txs, start, today)

	created, err := s.goals.CreateGoal(ctx, models.Goal{
		UserID:          userID,
		Name:            name,
		TargetAmount:    target,
		TargetDate:      in.TargetDate,
		StartDate:       start,
		CurrentProgress: progress,
	})
	if err != nil {
		return GoalView{}, storeError(err, "goal", "create")
	}
	if reached(created.TargetAmount, progress) {
		s.notifyReached(ctx, created)
	}
	return view(created), nil
}

// Get returns one goal with recomputed progress.
func (s *GoalService) Get(ctx context.Context, userID, id int64) (GoalView, error) {
	g, err := s.goals.FindGoal(ctx, userID, id)
	if err != nil {
		return GoalView{}, storeError(err, "goal", "find")
	}
	today := s.clock.Today()
	txs, err := s.window(ctx, userID, g.StartDate, today)
	if err != nil {
		return GoalView{}, err
	}
	g, err = s.refresh(ctx, g, txs, today)
	if err != nil {
		return GoalView{}, err
	}
	return view(g), nil
}

// List returns every goal of the user with recomputed progress.
func (s *GoalService) List(ctx context.Context, userID int64) ([]GoalView, error) {
	goals, err := s.goals.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]GoalView, 0, len(goals))
	if len(goals) == 0 {
		return out, nil
	}

	// One scan from the earliest start date serves every goal.
	today := s.clock.Today()
	earliest := goals[0].StartDate
	for _, g := range goals[1:] {
		if g.StartDate.Before(earliest) {
			earliest = g.StartDate
		}
	}
	txs, err := s.window(ctx, userID, earliest, today)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		g, err = s.refresh(ctx, g, txs, today)
		if err != nil {
			return nil, err
		}
		out = append(out, view(g))
	}
	return out, nil
}

// Update changes name, target amount or target date and recomputes progress.
func (s *GoalService) Update(ctx context.Context, userID, id int64, in GoalUpdate) (GoalView, error) {
	g, err := s.goals.FindGoal(ctx, userID, id)
	if err != nil {
		return GoalView{}, storeError(err, "goal", "find")
	}
	today := s.clock.Today()
	if in.Name != nil {
		if g.Name, err = validGoalName(*in.Name); err != nil {
			return GoalView{}, err
		}
	}
	if in.TargetAmount != nil {
		if g.TargetAmount, err = validAmount(*in.TargetAmount, "target amount"); err != nil {
			return GoalView{}, err
		}
	}
	if in.TargetDate != nil {
		if err := validGoalDates(g.StartDate, *in.TargetDate, today); err != nil {
			return GoalView{}, err
		}
		g.TargetDate = *in.TargetDate
	}

	txs, err := s.window(ctx, userID, g.StartDate, today)
	if err != nil {
		return GoalView{}, err
	}
	before := g.CurrentProgress
	wasReached := reached(g.TargetAmount, before)
	g.CurrentProgress = finance.GoalProgress(txs, g.StartDate, today)

	updated, err := s.goals.UpdateGoal(ctx, g)
	if err != nil {
		return GoalView{}, storeError(err, "goal", "update")
	}
	if !wasReached && reached(updated.TargetAmount, updated.CurrentProgress) {
		s.notifyReached(ctx, updated)
	}
	return view(updated), nil
}

// Delete removes one of the user's goals.
func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.goals.DeleteGoal(ctx, userID, id); err != nil {
		return storeError(err, "goal", "delete")
	}
	return nil
}

// refresh recomputes progress and persists it only when it changed. Two
// concurrent refreshes of one goal both write; the last one wins.
func (s *GoalService) refresh(ctx context.Context, g models.Goal, txs []models.Transaction, today models.Date) (models.Goal, error) {
	progress := finance.GoalProgress(txs, g.StartDate, today)
	if progress.Equal(g.CurrentProgress) {
		return g, nil
	}
	if err := s.goals.UpdateGoalProgress(ctx, g.UserID, g.ID, progress); err != nil {
		return models.Goal{}, storeError(err, "goal", "update progress of")
	}
	wasReached := reached(g.TargetAmount, g.CurrentProgress)
	g.CurrentProgress = progress
	if !wasReached && reached(g.TargetAmount, progress) {
		s.notifyReached(ctx, g)
	}
	return g, nil
}

// window loads the user's transactions dated in [start, end].
func (s *GoalService) window(ctx context.Context, userID int64, start, end models.Date) ([]models.Transaction, error) {
	if start.After(end) {
		return nil, nil
	}
	txs, err := s.txs.ListTransactions(ctx, userID, storage.TransactionFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("load goal transactions: %w", err)
	}
	return txs, nil
}

func (s *GoalService) notifyReached(ctx context.Context, g models.Goal) {
	events.Notify(ctx, s.events, events.New(events.GoalReached, g.UserID, map[string]any{
		"goalId":       g.ID,
		"goalName":     g.Name,
		"targetAmount": g.TargetAmount.StringFixed(2),
		"progress":     g.CurrentProgress.StringFixed(2),
	}))
}

func reached(target, progress decimal.Decimal) bool {
	return target.IsPositive() && progress.GreaterThanOrEqual(target)
}

func view(g models.Goal) GoalView {
	return GoalView{
		Goal:       g,
		Remaining:  finance.Remaining(g.TargetAmount, g.CurrentProgress),
		Percentage: finance.Percentage(g.CurrentProgress, g.TargetAmount),
	}
}

func validGoalName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("goal name is required")
	}
	if utf8.RuneCountInString(name) > maxGoalName {
		return "", invalid("goal name must be at most %d characters", maxGoalName)
	}
	return name, nil
}

func validGoalDates(start, target, today models.Date) error {
	if target.IsZero() {
		return invalid("target date is required")
	}
	if target.Before(today) {
		return invalid("target date cannot be in the past")
	}
	if start.After(target) {
		return invalid("start date must not be after target date")
	}
	return nil
}
