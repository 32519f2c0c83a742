package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/knjiznica/internal/ledger"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// AccountsHandler handles account endpoints.
type AccountsHandler struct {
	DB     *sql.DB
	Engine *ledger.Engine
}

type chargeRequest struct {
	Amount int `json:"amount"`
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := store.ListAccounts(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	jsonResponse(w, http.StatusOK, accounts)
}

// Me handles GET /api/accounts/me.
func (h *AccountsHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	account, err := store.GetAccount(r.Context(), h.DB, claims.AccountID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get account")
		return
	}
	if account == nil {
		jsonError(w, http.StatusNotFound, "account not found")
		return
	}
	jsonResponse(w, http.StatusOK, account)
}

// Borrows handles GET /api/accounts/me/borrows.
func (h *AccountsHandler) Borrows(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	borrows, err := store.ListBorrowsByAccount(r.Context(), h.DB, claims.AccountID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list borrows")
		return
	}
	if borrows == nil {
		borrows = []model.Borrow{}
	}
	jsonResponse(w, http.StatusOK, borrows)
}

// Charge handles POST /api/accounts/{email}/charge.
func (h *AccountsHandler) Charge(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	var req chargeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Engine.ChargeAccount(r.Context(), email, req.Amount)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("account charged", "account", account.Email, "amount", req.Amount, "balance", account.Balance)
	jsonResponse(w, http.StatusOK, account)
}
