package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/knjiznica/internal/db"
)

func TestCreateAndGetBook(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	book, err := CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 5, 3, 20)
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if book.CategoryName != "fantasy" {
		t.Errorf("expected joined category name, got %q", book.CategoryName)
	}

	got, _ := GetBookByTitle(ctx, database, "The Hobbit")
	if got == nil || got.ID != book.ID {
		t.Errorf("GetBookByTitle returned %+v", got)
	}
	if got.StockAmount != 5 || got.SalableQuantity != 3 || got.Price != 20 {
		t.Errorf("unexpected book fields: %+v", got)
	}
}

func TestCreateBookSalableAboveStockFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	_, err := CreateBook(ctx, database, "Broken", "Nobody", category.ID, 2, 5, 10)
	if err == nil {
		t.Error("expected error for salable above stock")
	}
}

func TestListBooksSalableOnly(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	CreateBook(ctx, database, "Salable", "A", category.ID, 3, 2, 10)
	CreateBook(ctx, database, "Reserved", "B", category.ID, 3, 0, 10)

	all, _ := ListBooks(ctx, database, false)
	if len(all) != 2 {
		t.Fatalf("expected 2 books, got %d", len(all))
	}

	salable, _ := ListBooks(ctx, database, true)
	if len(salable) != 1 || salable[0].Title != "Salable" {
		t.Errorf("expected only salable book, got %+v", salable)
	}
}

func TestRestockBook(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	book, _ := CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 1, 1, 20)

	if err := RestockBook(ctx, database, book.ID, 4, 2); err != nil {
		t.Fatalf("RestockBook: %v", err)
	}

	got, _ := GetBook(ctx, database, book.ID)
	if got.StockAmount != 5 || got.SalableQuantity != 3 {
		t.Errorf("expected stock 5 salable 3, got %d/%d", got.StockAmount, got.SalableQuantity)
	}
}

func TestAdjustBookUnits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	book, _ := CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 2, 2, 20)

	if err := AdjustBookUnits(ctx, database, book.ID, -1); err != nil {
		t.Fatalf("AdjustBookUnits: %v", err)
	}

	got, _ := GetBook(ctx, database, book.ID)
	if got.StockAmount != 1 || got.SalableQuantity != 1 {
		t.Errorf("expected stock 1 salable 1, got %d/%d", got.StockAmount, got.SalableQuantity)
	}
}

func TestAdjustBookUnitsBelowZeroFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	book, _ := CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 0, 0, 20)

	err := AdjustBookUnits(ctx, database, book.ID, -1)
	if !errors.Is(err, ErrNoBookUnits) {
		t.Errorf("expected ErrNoBookUnits, got %v", err)
	}
}

func TestSetAndGetBookCover(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "fantasy", 2, 3)
	book, _ := CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 1, 1, 20)

	data := []byte{0xff, 0xd8, 0xff}
	if err := SetBookCover(ctx, database, book.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetBookCover: %v", err)
	}

	got, mime, err := GetBookCover(ctx, database, book.ID)
	if err != nil {
		t.Fatalf("GetBookCover: %v", err)
	}
	if mime != "image/jpeg" || len(got) != len(data) {
		t.Errorf("unexpected cover: mime=%q len=%d", mime, len(got))
	}
}
