package api

import (
	"net/http"

	"github.com/erazemk/knjiznica/internal/report"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	Reporter *report.Reporter
}

// Profit handles GET /api/reports/profit.
func (h *ReportsHandler) Profit(w http.ResponseWriter, r *http.Request) {
	profits, err := h.Reporter.ProfitByCategory(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute profit report")
		return
	}
	jsonResponse(w, http.StatusOK, profits)
}

// Violations handles GET /api/reports/violations. An optional ?email= filter
// restricts the report to one account.
func (h *ReportsHandler) Violations(w http.ResponseWriter, r *http.Request) {
	violations, err := h.Reporter.Violations(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute violation report")
		return
	}
	if violations == nil {
		violations = []report.AccountViolations{}
	}
	jsonResponse(w, http.StatusOK, violations)
}

// ActiveBorrows handles GET /api/reports/borrows/active.
func (h *ReportsHandler) ActiveBorrows(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Reporter.ActiveBorrowCountsByBook(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count active borrows")
		return
	}
	jsonResponse(w, http.StatusOK, counts)
}

// BorrowCounts handles GET /api/reports/borrows/counts.
func (h *ReportsHandler) BorrowCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Reporter.BorrowCountsByBook(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count borrows")
		return
	}
	jsonResponse(w, http.StatusOK, counts)
}

// BuyCounts handles GET /api/reports/buys/counts.
func (h *ReportsHandler) BuyCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Reporter.BuyCountsByBook(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count buys")
		return
	}
	jsonResponse(w, http.StatusOK, counts)
}
