package handlers

import (
	"net/http"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/service"
)

// ReportHandler serves aggregate views over the caller's transactions.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Register wires the handler into a ServeMux.
func (h *ReportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/summary", h.handleSummary)
	mux.HandleFunc("GET /api/reports/spending-by-category", h.handleSpending)
	mux.HandleFunc("GET /api/reports/spending-by-category/chart", h.handleSpendingChart)
	mux.HandleFunc("GET /api/reports/monthly/{year}/{month}", h.handleMonthly)
	mux.HandleFunc("GET /api/reports/yearly/{year}", h.handleYearly)
}

func (h *ReportHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	start, end, ok := queryRange(w, r)
	if !ok {
		return
	}
	summary, err := h.reports.Summary(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, r, err, "build summary report")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewSummaryResponse(summary))
}

func (h *ReportHandler) handleSpending(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	start, end, ok := queryRange(w, r)
	if !ok {
		return
	}
	rows, err := h.reports.SpendingByCategory(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, r, err, "build spending report")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewSpendingResponse(rows))
}

func (h *ReportHandler) handleSpendingChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	start, end, ok := queryRange(w, r)
	if !ok {
		return
	}
	png, err := h.reports.SpendingChart(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, r, err, "render spending chart")
		return
	}
	respond.Image(w, "image/png", png)
}

func (h *ReportHandler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := pathInt(w, r, "month")
	if !ok {
		return
	}
	summary, err := h.reports.Monthly(r.Context(), userID, year, month)
	if err != nil {
		respondError(w, r, err, "build monthly report")
		return
	}
	out := dto.NewSummaryResponse(summary)
	out.Year, out.Month = year, month
	respond.JSON(w, http.StatusOK, "ok", out)
}

func (h *ReportHandler) handleYearly(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	year, ok := pathInt(w, r, "year")
	if !ok {
		return
	}
	summary, err := h.reports.Yearly(r.Context(), userID, year)
	if err != nil {
		respondError(w, r, err, "build yearly report")
		return
	}
	out := dto.NewSummaryResponse(summary)
	out.Year = year
	respond.JSON(w, http.StatusOK, "ok", out)
}
