package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
)

// ErrNotFound indicates a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInUse indicates a record is still referenced and cannot be removed.
var ErrInUse = errors.New("record is in use")

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}

// CategoryStore persists default and custom categories. Lookups that take a
// userID only return defaults or categories owned by that user.
type CategoryStore interface {
	EnsureDefaultCategory(ctx context.Context, name string, typ models.CategoryType) (bool, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	ListAccessibleCategories(ctx context.Context, userID int64) ([]models.Category, error)
	// FindAccessibleCategoryByName prefers the user's custom category over a default of the same name.
	FindAccessibleCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error)
	FindCustomCategoryByName(ctx context.Context, userID int64, name string) (models.Category, error)
	UpdateCategory(ctx context.Context, category models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error
	CategoryInUse(ctx context.Context, id int64) (bool, error)
}

// TransactionFilter narrows ListTransactions. Nil or empty fields do not filter.
type TransactionFilter struct {
	StartDate    *models.Date
	EndDate      *models.Date
	CategoryID   *int64
	CategoryType models.CategoryType
}

// TransactionStore persists transactions. Every call is scoped to one user.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	FindTransaction(ctx context.Context, userID, id int64) (models.Transaction, error)
	// ListTransactions returns matches newest first.
	ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// GoalStore persists savings goals. Every call is scoped to one user.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error)
	FindGoal(ctx context.Context, userID, id int64) (models.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal models.Goal) (models.Goal, error)
	UpdateGoalProgress(ctx context.Context, userID, id int64, progress decimal.Decimal) error
	DeleteGoal(ctx context.Context, userID, id int64) error
}

// SessionStore remembers logged-out session tokens until they expire.
type SessionStore interface {
	RevokeSession(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	CategoryStore
	TransactionStore
	GoalStore
	SessionStore
	Ping(ctx context.Context) error
	Close()
}
