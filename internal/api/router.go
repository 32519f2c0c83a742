package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/knjiznica/internal/ledger"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/report"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, engine *ledger.Engine, reporter *report.Reporter) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	accountsHandler := &AccountsHandler{DB: db, Engine: engine}
	categoriesHandler := &CategoriesHandler{DB: db, Engine: engine}
	booksHandler := &BooksHandler{DB: db, Engine: engine}
	lendingHandler := &LendingHandler{Engine: engine}
	reportsHandler := &ReportsHandler{Reporter: reporter}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: register and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Accounts: self-service (all roles), management (admin).
	mux.Handle("GET /api/accounts", authMW(requireAdmin(http.HandlerFunc(accountsHandler.List))))
	mux.Handle("GET /api/accounts/me", authMW(http.HandlerFunc(accountsHandler.Me)))
	mux.Handle("GET /api/accounts/me/borrows", authMW(http.HandlerFunc(accountsHandler.Borrows)))
	mux.Handle("POST /api/accounts/{email}/charge", authMW(requireAdmin(http.HandlerFunc(accountsHandler.Charge))))

	// Catalog: read (all roles), write (admin).
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Create))))
	mux.Handle("GET /api/books", authMW(http.HandlerFunc(booksHandler.List)))
	mux.Handle("POST /api/books", authMW(requireAdmin(http.HandlerFunc(booksHandler.Create))))
	mux.Handle("GET /api/books/{title}", authMW(http.HandlerFunc(booksHandler.Get)))
	mux.Handle("POST /api/books/{title}/restock", authMW(requireAdmin(http.HandlerFunc(booksHandler.Restock))))
	mux.Handle("PUT /api/books/{title}/cover", authMW(requireAdmin(http.HandlerFunc(booksHandler.UploadCover))))
	mux.Handle("GET /api/books/{title}/cover", authMW(http.HandlerFunc(booksHandler.GetCover)))

	// Lending (all roles; patrons act on their own account).
	mux.Handle("POST /api/lending/buy", authMW(http.HandlerFunc(lendingHandler.Buy)))
	mux.Handle("POST /api/lending/buy/check", authMW(http.HandlerFunc(lendingHandler.Saleability)))
	mux.Handle("POST /api/lending/borrow", authMW(http.HandlerFunc(lendingHandler.Borrow)))
	mux.Handle("POST /api/lending/return", authMW(http.HandlerFunc(lendingHandler.Return)))

	// Reports (admin).
	mux.Handle("GET /api/reports/profit", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Profit))))
	mux.Handle("GET /api/reports/violations", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Violations))))
	mux.Handle("GET /api/reports/borrows/active", authMW(requireAdmin(http.HandlerFunc(reportsHandler.ActiveBorrows))))
	mux.Handle("GET /api/reports/borrows/counts", authMW(requireAdmin(http.HandlerFunc(reportsHandler.BorrowCounts))))
	mux.Handle("GET /api/reports/buys/counts", authMW(requireAdmin(http.HandlerFunc(reportsHandler.BuyCounts))))

	return mux
}
