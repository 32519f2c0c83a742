package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/knjiznica/internal/imaging"
	"github.com/erazemk/knjiznica/internal/ledger"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// BooksHandler handles catalog endpoints.
type BooksHandler struct {
	DB     *sql.DB
	Engine *ledger.Engine
}

type createBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	CategoryName    string `json:"category_name"`
	StockAmount     int    `json:"stock_amount"`
	SalableQuantity int    `json:"salable_quantity"`
	Price           int    `json:"price"`
}

type restockRequest struct {
	AddStock   int `json:"add_stock"`
	AddSalable int `json:"add_salable"`
}

// Create handles POST /api/books.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.Engine.CreateBook(r.Context(), req.Title, req.Author, req.CategoryName,
		req.StockAmount, req.SalableQuantity, req.Price)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("book created", "book", book.Title, "category", book.CategoryName, "stock", book.StockAmount)
	jsonResponse(w, http.StatusCreated, book)
}

// List handles GET /api/books. With ?salable=true only books with salable
// units are returned.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	salableOnly := r.URL.Query().Get("salable") == "true"

	books, err := store.ListBooks(r.Context(), h.DB, salableOnly)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	jsonResponse(w, http.StatusOK, books)
}

// Get handles GET /api/books/{title}.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	book, err := store.GetBookByTitle(r.Context(), h.DB, title)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	if book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}
	jsonResponse(w, http.StatusOK, book)
}

// Restock handles POST /api/books/{title}/restock.
func (h *BooksHandler) Restock(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	var req restockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.Engine.RestockBook(r.Context(), title, req.AddStock, req.AddSalable)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("book restocked", "book", book.Title, "add_stock", req.AddStock, "add_salable", req.AddSalable)
	jsonResponse(w, http.StatusOK, book)
}

// UploadCover handles PUT /api/books/{title}/cover.
func (h *BooksHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	book, err := store.GetBookByTitle(r.Context(), h.DB, title)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	if book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}

	cover, err := imaging.ProcessCover(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetBookCover(r.Context(), h.DB, book.ID, cover.Data, cover.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}

	slog.Info("book cover updated", "book", book.Title, "bytes", len(cover.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "cover updated"})
}

// GetCover handles GET /api/books/{title}/cover.
func (h *BooksHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	book, err := store.GetBookByTitle(r.Context(), h.DB, title)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	if book == nil {
		jsonError(w, http.StatusNotFound, "book not found")
		return
	}

	data, mime, err := store.GetBookCover(r.Context(), h.DB, book.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get cover")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "book has no cover")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}
