package models

import (
	"fmt"
	"strings"
)

// CategoryType classifies a category as a source of income or an expense.
type CategoryType string

const (
	Income  CategoryType = "INCOME"
	Expense CategoryType = "EXPENSE"
)

// ParseCategoryType accepts INCOME or EXPENSE in any case.
func ParseCategoryType(s string) (CategoryType, error) {
	switch CategoryType(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", fmt.Errorf("category type must be INCOME or EXPENSE")
}

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

// CategoryOwner says whether a category is a shared default or belongs to one user.
// The zero value is the default owner.
type CategoryOwner struct {
	userID int64
}

// DefaultOwner marks a system category visible to every user.
func DefaultOwner() CategoryOwner { return CategoryOwner{} }

// CustomOwner marks a category created by and private to userID.
func CustomOwner(userID int64) CategoryOwner { return CategoryOwner{userID: userID} }

func (o CategoryOwner) IsDefault() bool { return o.userID == 0 }

// UserID returns the owning user for custom categories.
func (o CategoryOwner) UserID() (int64, bool) {
	return o.userID, o.userID != 0
}

// AccessibleTo reports whether userID may read or reference the category.
func (o CategoryOwner) AccessibleTo(userID int64) bool {
	return o.IsDefault() || o.userID == userID
}

// Category is a named INCOME or EXPENSE bucket.
type Category struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Type  CategoryType  `json:"type"`
	Owner CategoryOwner `json:"-"`
}

// IsCustom reports whether the category was created by a user.
func (c Category) IsCustom() bool {
	return !c.Owner.IsDefault()
}
