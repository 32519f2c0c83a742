package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/knjiznica/internal/ledger"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB     *sql.DB
	Engine *ledger.Engine
}

type createCategoryRequest struct {
	Name            string `json:"name"`
	DailyBorrowFee  int    `json:"daily_borrow_fee"`
	MaxBorrowAmount int    `json:"max_borrow_amount"`
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.Engine.CreateCategory(r.Context(), req.Name, req.DailyBorrowFee, req.MaxBorrowAmount)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("category created", "category", category.Name,
		"daily_fee", category.DailyBorrowFee, "max_borrows", category.MaxBorrowAmount)
	jsonResponse(w, http.StatusCreated, category)
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}
