package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/models"
)

func newGoal(t *testing.T, e *env, userID int64, target string, start models.Date) GoalView {
	t.Helper()
	g, err := e.goals.Create(context.Background(), userID, GoalInput{
		Name:         "Car",
		TargetAmount: decimal.RequireFromString(target),
		TargetDate:   today.AddDays(180),
		StartDate:    start,
	})
	require.NoError(t, err)
	return g
}

func TestGoalProgressScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	start := today.AddDays(-30)

	goal := newGoal(t, e, alice, "1000", start)
	require.True(t, goal.CurrentProgress.IsZero())
	require.Equal(t, "0.0", goal.Percentage)
	require.Equal(t, "1000.00", goal.Remaining.StringFixed(2))

	e.tx(t, alice, "Salary", "500", start.AddDays(1))
	e.tx(t, alice, "Food", "100", today)
	e.tx(t, alice, "Salary", "9999", start.AddDays(-1)) // before the goal started

	got, err := e.goals.Get(ctx, alice, goal.ID)
	require.NoError(t, err)
	require.Equal(t, "400.00", got.CurrentProgress.StringFixed(2))
	require.Equal(t, "600.00", got.Remaining.StringFixed(2))
	require.Equal(t, "40.0", got.Percentage)

	// Reads are idempotent and the snapshot is persisted.
	again, err := e.goals.Get(ctx, alice, goal.ID)
	require.NoError(t, err)
	require.True(t, again.CurrentProgress.Equal(got.CurrentProgress))
	stored, err := e.store.FindGoal(ctx, alice, goal.ID)
	require.NoError(t, err)
	require.Equal(t, "400.00", stored.CurrentProgress.StringFixed(2))

	list, err := e.goals.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "40.0", list[0].Percentage)
}

func TestGoalReachedPublishesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	goal := newGoal(t, e, alice, "100", today.AddDays(-1))

	e.tx(t, alice, "Salary", "150", today)
	got, err := e.goals.Get(ctx, alice, goal.ID)
	require.NoError(t, err)
	require.Equal(t, "100.0", got.Percentage)
	require.True(t, got.Remaining.IsZero())

	_, err = e.goals.Get(ctx, alice, goal.ID)
	require.NoError(t, err)
	require.Equal(t, []string{events.TransactionCreated, events.GoalReached}, e.events.types())
}

func TestCreateGoalValidation(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")
	base := GoalInput{Name: "Trip", TargetAmount: decimal.NewFromInt(100), TargetDate: today.AddDays(10)}

	cases := map[string]func(in *GoalInput){
		"missing name":         func(in *GoalInput) { in.Name = " " },
		"zero target":          func(in *GoalInput) { in.TargetAmount = decimal.Zero },
		"negative target":      func(in *GoalInput) { in.TargetAmount = decimal.NewFromInt(-1) },
		"target above limit":   func(in *GoalInput) { in.TargetAmount = decimal.RequireFromString("1e30") },
		"past target date":     func(in *GoalInput) { in.TargetDate = today.AddDays(-1) },
		"missing target date":  func(in *GoalInput) { in.TargetDate = models.Date{} },
		"start after deadline": func(in *GoalInput) { in.StartDate = today.AddDays(11) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := e.goals.Create(context.Background(), alice, in)
			requireKind(t, err, ErrInvalid)
		})
	}

	g, err := e.goals.Create(context.Background(), alice, base)
	require.NoError(t, err)
	require.Equal(t, today, g.StartDate, "start date defaults to today")

	// A deadline of today is allowed.
	base.TargetDate = today
	_, err = e.goals.Create(context.Background(), alice, base)
	require.NoError(t, err)
}

func TestUpdateAndDeleteGoal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	goal := newGoal(t, e, alice, "1000", today.AddDays(-3))
	e.tx(t, alice, "Salary", "300", today)

	name := "House"
	target := decimal.NewFromInt(600)
	updated, err := e.goals.Update(ctx, alice, goal.ID, GoalUpdate{Name: &name, TargetAmount: &target})
	require.NoError(t, err)
	require.Equal(t, "House", updated.Name)
	require.Equal(t, goal.TargetDate, updated.TargetDate)
	require.Equal(t, "300.00", updated.CurrentProgress.StringFixed(2))
	require.Equal(t, "50.0", updated.Percentage)

	past := today.AddDays(-1)
	_, err = e.goals.Update(ctx, alice, goal.ID, GoalUpdate{TargetDate: &past})
	requireKind(t, err, ErrInvalid)
	zero := decimal.Zero
	_, err = e.goals.Update(ctx, alice, goal.ID, GoalUpdate{TargetAmount: &zero})
	requireKind(t, err, ErrInvalid)
	huge := decimal.RequireFromString("1e100000000")
	_, err = e.goals.Update(ctx, alice, goal.ID, GoalUpdate{TargetAmount: &huge})
	requireKind(t, err, ErrInvalid)

	_, err = e.goals.Get(ctx, bob, goal.ID)
	requireKind(t, err, ErrNotFound)
	_, err = e.goals.Update(ctx, bob, goal.ID, GoalUpdate{Name: &name})
	requireKind(t, err, ErrNotFound)
	requireKind(t, e.goals.Delete(ctx, bob, goal.ID), ErrNotFound)

	require.NoError(t, e.goals.Delete(ctx, alice, goal.ID))
	list, err := e.goals.List(ctx, alice)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestListGoalsUsesEachStartDate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	early := newGoal(t, e, alice, "1000", today.AddDays(-60))
	late := newGoal(t, e, alice, "1000", today.AddDays(-5))

	e.tx(t, alice, "Salary", "200", today.AddDays(-30))
	e.tx(t, alice, "Salary", "100", today.AddDays(-1))

	list, err := e.goals.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, early.ID, list[0].ID)
	require.Equal(t, "300.00", list[0].CurrentProgress.StringFixed(2))
	require.Equal(t, late.ID, list[1].ID)
	require.Equal(t, "100.00", list[1].CurrentProgress.StringFixed(2))
}
