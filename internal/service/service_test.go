package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/seed"
	"github.com/hongminglow/finance-be/internal/storage/sqlite"
)

// today is the fixed "now" of every service test.
var today = models.NewDate(2024, time.June, 15)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	store        *sqlite.Store
	events       *recorder
	users        *UserService
	categories   *CategoryService
	transactions *TransactionService
	goals        *GoalService
	reports      *ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	defaults, err := seed.Defaults()
	require.NoError(t, err)
	require.NoError(t, seed.Categories(ctx, store, defaults))

	clock := Clock(func() time.Time { return today.Add(10 * time.Hour) })
	rec := &recorder{}
	categories := NewCategoryService(store)
	return &env{
		store:        store,
		events:       rec,
		users:        NewUserService(store, store, auth.NewTokenManager("test-secret", "finance-be", 30*time.Minute)),
		categories:   categories,
		transactions: NewTransactionService(store, categories, rec, clock),
		goals:        NewGoalService(store, store, rec, clock),
		reports:      NewReportService(store),
	}
}

// user creates an account directly in the store, skipping bcrypt.
func (e *env) user(t *testing.T, name string) int64 {
	t.Helper()
	u, err := e.store.CreateUser(context.Background(), models.User{
		Username:     name + "@example.com",
		FullName:     name,
		PhoneNumber:  "+15550001111",
		PasswordHash: "unused",
	})
	require.NoError(t, err)
	return u.ID
}

func (e *env) tx(t *testing.T, userID int64, category, amount string, date models.Date) models.Transaction {
	t.Helper()
	created, err := e.transactions.Create(context.Background(), userID, TransactionInput{
		Amount:       decimal.RequireFromString(amount),
		Date:         date,
		CategoryName: category,
	})
	require.NoError(t, err)
	return created
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.NotEmpty(t, svcErr.Message)
}
