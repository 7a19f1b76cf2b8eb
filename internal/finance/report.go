package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
)

// Summary partitions a window of transactions by category type.
type Summary struct {
	Income        map[string]decimal.Decimal
	Expenses      map[string]decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
}

// CategorySpending is one row of the spending-by-category report.
type CategorySpending struct {
	Name  string
	Type  models.CategoryType
	Total decimal.Decimal
}

// Summarize totals income and expenses per category name over [start, end].
func Summarize(txs []models.Transaction, start, end models.Date) Summary {
	s := Summary{
		Income:        map[string]decimal.Decimal{},
		Expenses:      map[string]decimal.Decimal{},
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, t := range txs {
		if !t.Date.Within(start, end) {
			continue
		}
		if t.IsIncome() {
			s.Income[t.CategoryName] = s.Income[t.CategoryName].Add(t.Amount)
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.Expenses[t.CategoryName] = s.Expenses[t.CategoryName].Add(t.Amount)
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}
	s.TotalIncome = s.TotalIncome.Round(2)
	s.TotalExpenses = s.TotalExpenses.Round(2)
	s.Net = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// SpendingByCategory sums expense transactions in [start, end] per category,
// largest total first. Equal totals are ordered by name.
func SpendingByCategory(txs []models.Transaction, start, end models.Date) []CategorySpending {
	totals := map[int64]*CategorySpending{}
	for _, t := range txs {
		if t.IsIncome() || !t.Date.Within(start, end) {
			continue
		}
		row, ok := totals[t.CategoryID]
		if !ok {
			row = &CategorySpending{Name: t.CategoryName, Type: t.CategoryType, Total: decimal.Zero}
			totals[t.CategoryID] = row
		}
		row.Total = row.Total.Add(t.Amount)
	}
	out := make([]CategorySpending, 0, len(totals))
	for _, row := range totals {
		row.Total = row.Total.Round(2)
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthRange returns the first and last day of a month.
func MonthRange(year, month int) (models.Date, models.Date, error) {
	if month < 1 || month > 12 {
		return models.Date{}, models.Date{}, fmt.Errorf("month must be between 1 and 12")
	}
	start := models.NewDate(year, time.Month(month), 1)
	end := models.NewDate(year, time.Month(month)+1, 0)
	return start, end, nil
}

// YearRange returns January 1st and December 31st of year.
func YearRange(year int) (models.Date, models.Date) {
	return models.NewDate(year, time.January, 1), models.NewDate(year, time.December, 31)
}
