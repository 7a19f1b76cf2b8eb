// Package finance holds the pure aggregation rules behind goal progress and reports.
// Nothing here touches storage or the clock; callers pass the window explicitly.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = decimal.RequireFromString("100.0")
)

// GoalProgress returns income minus expenses over transactions dated in [start, asOf].
func GoalProgress(txs []models.Transaction, start, asOf models.Date) decimal.Decimal {
	progress := decimal.Zero
	for _, t := range txs {
		if !t.Date.Within(start, asOf) {
			continue
		}
		if t.IsIncome() {
			progress = progress.Add(t.Amount)
		} else {
			progress = progress.Sub(t.Amount)
		}
	}
	return progress.Round(2)
}

// Remaining is how much is still missing to reach target, never negative.
func Remaining(target, progress decimal.Decimal) decimal.Decimal {
	rest := target.Sub(progress)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest.Round(2)
}

// Percentage renders progress as a share of target with at most two decimals and
// at least one, e.g. "0.0", "40.0", "33.33". It is capped at 100.0 and is "0.0"
// whenever target is not positive.
func Percentage(progress, target decimal.Decimal) string {
	if !target.IsPositive() {
		return "0.0"
	}
	pct := progress.DivRound(target, 4).Mul(hundred).Round(2)
	if pct.GreaterThan(maxPercent) {
		pct = maxPercent
	}
	if pct.IsZero() {
		return "0.0"
	}
	if pct.Equal(pct.Truncate(0)) {
		return pct.StringFixed(1)
	}
	return pct.String()
}
