package service

import (
	"context"
	"fmt"

	"github.com/hongminglow/finance-be/internal/charts"
	"github.com/hongminglow/finance-be/internal/finance"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

// ReportService aggregates a user's transactions over date ranges.
type ReportService struct {
	txs storage.TransactionStore
}

// NewReportService constructs the service.
func NewReportService(txs storage.TransactionStore) *ReportService {
	return &ReportService{txs: txs}
}

// Summary totals income and expenses per category over [start, end].
func (s *ReportService) Summary(ctx context.Context, userID int64, start, end models.Date) (finance.Summary, error) {
	txs, err := s.load(ctx, userID, start, end)
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Summarize(txs, start, end), nil
}

// Monthly summarises one calendar month.
func (s *ReportService) Monthly(ctx context.Context, userID int64, year, month int) (finance.Summary, error) {
	start, end, err := finance.MonthRange(year, month)
	if err != nil {
		return finance.Summary{}, invalid("%s", err.Error())
	}
	return s.Summary(ctx, userID, start, end)
}

// Yearly summarises one calendar year.
func (s *ReportService) Yearly(ctx context.Context, userID int64, year int) (finance.Summary, error) {
	start, end := finance.YearRange(year)
	return s.Summary(ctx, userID, start, end)
}

// SpendingByCategory sums expenses per category over [start, end], largest first.
func (s *ReportService) SpendingByCategory(ctx context.Context, userID int64, start, end models.Date) ([]finance.CategorySpending, error) {
	txs, err := s.load(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return finance.SpendingByCategory(txs, start, end), nil
}

// SpendingChart renders SpendingByCategory as a PNG pie chart, or nil when
// there is no spending in the range.
func (s *ReportService) SpendingChart(ctx context.Context, userID int64, start, end models.Date) ([]byte, error) {
	rows, err := s.SpendingByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return charts.SpendingPie(rows)
}

func (s *ReportService) load(ctx context.Context, userID int64, start, end models.Date) ([]models.Transaction, error) {
	if start.IsZero() || end.IsZero() {
		return nil, invalid("startDate and endDate are required")
	}
	if start.After(end) {
		return nil, invalid("startDate must not be after endDate")
	}
	filter := storage.TransactionFilter{StartDate: &start, EndDate: &end}
	txs, err := s.txs.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("load report transactions: %w", err)
	}
	return txs, nil
}
