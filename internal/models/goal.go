package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentProgress is a stored snapshot and is
// recomputed from transactions whenever the goal is served.
type Goal struct {
	ID              int64
	UserID          int64
	Name            string
	TargetAmount    decimal.Decimal
	TargetDate      Date
	StartDate       Date
	CurrentProgress decimal.Decimal
	CreatedAt       time.Time
}
