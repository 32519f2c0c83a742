package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/knjiznica/internal/ledger"
	"github.com/erazemk/knjiznica/internal/model"
)

// LendingHandler handles buy, borrow and return endpoints.
type LendingHandler struct {
	Engine *ledger.Engine
}

type lendingRequest struct {
	AccountEmail string `json:"account_email"`
	BookTitle    string `json:"book_title"`
}

// decode reads the request and fills in the caller's own email when none is
// given. Patrons may only act on their own account; admins on any.
func (h *LendingHandler) decode(w http.ResponseWriter, r *http.Request) (*lendingRequest, bool) {
	var req lendingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	if req.AccountEmail == "" {
		req.AccountEmail = claims.Email
	}
	if req.AccountEmail != claims.Email && !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		jsonError(w, http.StatusForbidden, "cannot act on another account")
		return nil, false
	}
	if req.BookTitle == "" {
		jsonError(w, http.StatusBadRequest, "book_title is required")
		return nil, false
	}

	return &req, true
}

// Buy handles POST /api/lending/buy.
func (h *LendingHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	buy, err := h.Engine.Buy(r.Context(), req.AccountEmail, req.BookTitle)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("book sold", "book", buy.BookTitle, "account", buy.AccountEmail)
	jsonResponse(w, http.StatusCreated, buy)
}

// Saleability handles POST /api/lending/buy/check: Buy's validation chain
// without the purchase.
func (h *LendingHandler) Saleability(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.Engine.CheckSaleability(r.Context(), req.AccountEmail, req.BookTitle); err != nil {
		ledgerError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "this book can be bought"})
}

// Borrow handles POST /api/lending/borrow.
func (h *LendingHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	borrow, err := h.Engine.Borrow(r.Context(), req.AccountEmail, req.BookTitle)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("book borrowed", "book", borrow.BookTitle, "account", borrow.AccountEmail,
		"days", borrow.BorrowDays)
	jsonResponse(w, http.StatusCreated, borrow)
}

// Return handles POST /api/lending/return.
func (h *LendingHandler) Return(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	borrow, err := h.Engine.Return(r.Context(), req.AccountEmail, req.BookTitle)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("book returned", "book", borrow.BookTitle, "account", borrow.AccountEmail)
	jsonResponse(w, http.StatusOK, borrow)
}
