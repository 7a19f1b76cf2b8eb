// Package storagetest holds behaviour checks shared by every storage.Store backend.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

// Factory returns an empty, migrated store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Run executes the shared store checks against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"Users", testUsers},
		{"DefaultCategories", testDefaultCategories},
		{"CustomCategories", testCustomCategories},
		{"Transactions", testTransactions},
		{"TransactionFilters", testTransactionFilters},
		{"Goals", testGoals},
		{"Sessions", testSessions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func createUser(t *testing.T, s storage.Store, name string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Username:     name + "@example.com",
		FullName:     name,
		PhoneNumber:  "+15550000000",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func ensureDefault(t *testing.T, s storage.Store, name string, typ models.CategoryType) models.Category {
	t.Helper()
	ctx := context.Background()
	_, err := s.EnsureDefaultCategory(ctx, name, typ)
	require.NoError(t, err)
	// Default lookups are visible through any user id.
	c, err := s.FindAccessibleCategoryByName(ctx, -1, name)
	require.NoError(t, err)
	return c
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	require.NotZero(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	byName, err := s.FindUserByUsername(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)
	require.Equal(t, "hash", byName.PasswordHash)

	byID, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.FullName)

	_, err = s.CreateUser(ctx, models.User{Username: "alice@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.FindUserByUsername(ctx, "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testDefaultCategories(t *testing.T, s storage.Store) {
	ctx := context.Background()
	inserted, err := s.EnsureDefaultCategory(ctx, "Food", models.Expense)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.EnsureDefaultCategory(ctx, "Food", models.Expense)
	require.NoError(t, err)
	require.False(t, inserted, "seeding twice must not duplicate")

	u := createUser(t, s, "bob")
	list, err := s.ListAccessibleCategories(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Owner.IsDefault())

	_, err = s.FindCustomCategoryByName(ctx, u.ID, "Food")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testCustomCategories(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	ensureDefault(t, s, "Salary", models.Income)

	gym, err := s.CreateCategory(ctx, models.Category{Name: "Gym", Type: models.Expense, Owner: models.CustomOwner(alice.ID)})
	require.NoError(t, err)
	require.True(t, gym.IsCustom())

	_, err = s.CreateCategory(ctx, models.Category{Name: "Gym", Type: models.Expense, Owner: models.CustomOwner(alice.ID)})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Same name for another user is allowed.
	_, err = s.CreateCategory(ctx, models.Category{Name: "Gym", Type: models.Income, Owner: models.CustomOwner(bob.ID)})
	require.NoError(t, err)

	list, err := s.ListAccessibleCategories(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Gym", list[0].Name, "EXPENSE sorts before INCOME")
	require.Equal(t, "Salary", list[1].Name)

	// A custom category shadows a default of the same name.
	shadow, err := s.CreateCategory(ctx, models.Category{Name: "Salary", Type: models.Income, Owner: models.CustomOwner(bob.ID)})
	require.NoError(t, err)
	found, err := s.FindAccessibleCategoryByName(ctx, bob.ID, "Salary")
	require.NoError(t, err)
	require.Equal(t, shadow.ID, found.ID)
	found, err = s.FindAccessibleCategoryByName(ctx, alice.ID, "Salary")
	require.NoError(t, err)
	require.True(t, found.Owner.IsDefault())

	_, err = s.FindAccessibleCategoryByName(ctx, bob.ID, "Gym")
	require.NoError(t, err)
	own, err := s.FindCustomCategoryByName(ctx, alice.ID, "Gym")
	require.NoError(t, err)
	require.Equal(t, gym.ID, own.ID)

	gym.Name = "Fitness"
	gym.Type = models.Income
	updated, err := s.UpdateCategory(ctx, gym)
	require.NoError(t, err)
	require.Equal(t, "Fitness", updated.Name)
	require.Equal(t, models.Income, updated.Type)

	// Another user cannot touch alice's category.
	require.ErrorIs(t, s.DeleteCategory(ctx, bob.ID, gym.ID), storage.ErrNotFound)

	inUse, err := s.CategoryInUse(ctx, gym.ID)
	require.NoError(t, err)
	require.False(t, inUse)
	require.NoError(t, s.DeleteCategory(ctx, alice.ID, gym.ID))
	require.ErrorIs(t, s.DeleteCategory(ctx, alice.ID, gym.ID), storage.ErrNotFound)
}

func testTransactions(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	food := ensureDefault(t, s, "Food", models.Expense)
	salary := ensureDefault(t, s, "Salary", models.Income)

	created, err := s.CreateTransaction(ctx, models.Transaction{
		UserID:      alice.ID,
		CategoryID:  food.ID,
		Amount:      decimal.RequireFromString("12.5"),
		Date:        models.NewDate(2024, time.March, 4),
		Description: "lunch",
	})
	require.NoError(t, err)
	require.Equal(t, "Food", created.CategoryName)
	require.Equal(t, models.Expense, created.CategoryType)
	require.Equal(t, "12.50", created.Amount.StringFixed(2))
	require.Equal(t, "2024-03-04", created.Date.String())

	_, err = s.FindTransaction(ctx, bob.ID, created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	inUse, err := s.CategoryInUse(ctx, food.ID)
	require.NoError(t, err)
	require.True(t, inUse)

	created.CategoryID = salary.ID
	created.Amount = decimal.RequireFromString("99.99")
	created.Description = "refund"
	created.Date = models.NewDate(2030, time.January, 1)
	updated, err := s.UpdateTransaction(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Salary", updated.CategoryName)
	require.True(t, updated.IsIncome())
	require.Equal(t, "99.99", updated.Amount.StringFixed(2))
	require.Equal(t, "2024-03-04", updated.Date.String(), "date is immutable")

	other := updated
	other.UserID = bob.ID
	_, err = s.UpdateTransaction(ctx, other)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, s.DeleteTransaction(ctx, bob.ID, created.ID), storage.ErrNotFound)
	require.NoError(t, s.DeleteTransaction(ctx, alice.ID, created.ID))
	_, err = s.FindTransaction(ctx, alice.ID, created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testTransactionFilters(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	food := ensureDefault(t, s, "Food", models.Expense)
	salary := ensureDefault(t, s, "Salary", models.Income)

	add := func(userID int64, c models.Category, amount string, day int) {
		_, err := s.CreateTransaction(ctx, models.Transaction{
			UserID:     userID,
			CategoryID: c.ID,
			Amount:     decimal.RequireFromString(amount),
			Date:       models.NewDate(2024, time.May, day),
		})
		require.NoError(t, err)
	}
	add(alice.ID, salary, "1000", 1)
	add(alice.ID, food, "10", 3)
	add(alice.ID, food, "20", 3)
	add(alice.ID, food, "30", 10)
	add(bob.ID, food, "500", 3)

	all, err := s.ListTransactions(ctx, alice.ID, storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	got := make([]string, 0, len(all))
	for _, tx := range all {
		got = append(got, fmt.Sprintf("%s:%s", tx.Date, tx.Amount.StringFixed(0)))
	}
	require.Equal(t, []string{"2024-05-10:30", "2024-05-03:20", "2024-05-03:10", "2024-05-01:1000"}, got)

	start, end := models.NewDate(2024, time.May, 2), models.NewDate(2024, time.May, 3)
	ranged, err := s.ListTransactions(ctx, alice.ID, storage.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, ranged, 2)

	income, err := s.ListTransactions(ctx, alice.ID, storage.TransactionFilter{CategoryType: models.Income})
	require.NoError(t, err)
	require.Len(t, income, 1)
	require.Equal(t, "Salary", income[0].CategoryName)

	byCategory, err := s.ListTransactions(ctx, alice.ID, storage.TransactionFilter{CategoryID: &food.ID, StartDate: &end})
	require.NoError(t, err)
	require.Len(t, byCategory, 3)

	none, err := s.ListTransactions(ctx, bob.ID, storage.TransactionFilter{CategoryType: models.Income})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func testGoals(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	goal, err := s.CreateGoal(ctx, models.Goal{
		UserID:          alice.ID,
		Name:            "Car",
		TargetAmount:    decimal.RequireFromString("1000"),
		TargetDate:      models.NewDate(2025, time.December, 31),
		StartDate:       models.NewDate(2025, time.January, 1),
		CurrentProgress: decimal.Zero,
	})
	require.NoError(t, err)
	require.NotZero(t, goal.ID)
	require.Equal(t, "1000.00", goal.TargetAmount.StringFixed(2))
	require.Equal(t, "2025-01-01", goal.StartDate.String())
	require.True(t, goal.CurrentProgress.IsZero())

	_, err = s.FindGoal(ctx, bob.ID, goal.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.UpdateGoalProgress(ctx, alice.ID, goal.ID, decimal.RequireFromString("-25.5")))
	require.ErrorIs(t, s.UpdateGoalProgress(ctx, bob.ID, goal.ID, decimal.Zero), storage.ErrNotFound)
	found, err := s.FindGoal(ctx, alice.ID, goal.ID)
	require.NoError(t, err)
	require.Equal(t, "-25.50", found.CurrentProgress.StringFixed(2))

	found.Name = "House"
	found.TargetAmount = decimal.RequireFromString("5000")
	found.TargetDate = models.NewDate(2026, time.June, 30)
	updated, err := s.UpdateGoal(ctx, found)
	require.NoError(t, err)
	require.Equal(t, "House", updated.Name)
	require.Equal(t, "2026-06-30", updated.TargetDate.String())
	require.Equal(t, "2025-01-01", updated.StartDate.String())

	_, err = s.CreateGoal(ctx, models.Goal{
		UserID:       alice.ID,
		Name:         "Trip",
		TargetAmount: decimal.NewFromInt(200),
		TargetDate:   models.NewDate(2025, time.March, 1),
		StartDate:    models.NewDate(2025, time.February, 1),
	})
	require.NoError(t, err)

	list, err := s.ListGoals(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "House", list[0].Name)

	empty, err := s.ListGoals(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, empty)

	require.ErrorIs(t, s.DeleteGoal(ctx, bob.ID, goal.ID), storage.ErrNotFound)
	require.NoError(t, s.DeleteGoal(ctx, alice.ID, goal.ID))
	_, err = s.FindGoal(ctx, alice.ID, goal.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func testSessions(t *testing.T, s storage.Store) {
	ctx := context.Background()
	revoked, err := s.IsSessionRevoked(ctx, "abc")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.RevokeSession(ctx, "abc", time.Now().Add(time.Hour)))
	require.NoError(t, s.RevokeSession(ctx, "abc", time.Now().Add(time.Hour)))
	revoked, err = s.IsSessionRevoked(ctx, "abc")
	require.NoError(t, err)
	require.True(t, revoked)

	require.NoError(t, s.Ping(ctx))
}
