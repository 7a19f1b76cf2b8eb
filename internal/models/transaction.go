package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one dated income or expense entry. CategoryName and CategoryType
// are denormalised from the referenced category when read back from storage.
type Transaction struct {
	ID           int64
	UserID       int64
	CategoryID   int64
	CategoryName string
	CategoryType CategoryType
	Amount       decimal.Decimal
	Date         Date
	Description  string
	CreatedAt    time.Time
}

// IsIncome reports whether the transaction adds to savings.
func (t Transaction) IsIncome() bool {
	return t.CategoryType == Income
}
