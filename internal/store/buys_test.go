package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/knjiznica/internal/db"
)

func TestCreateAndGetBuy(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	book, account := seedBorrowFixtures(t, database)

	buy, err := CreateBuy(ctx, database, book.ID, account.ID, time.Now())
	if err != nil {
		t.Fatalf("CreateBuy: %v", err)
	}
	if buy.BookTitle != "The Hobbit" || buy.AccountEmail != "alice@example.com" {
		t.Errorf("expected joined fields, got %+v", buy)
	}
	if buy.Price != 20 || buy.CategoryID != book.CategoryID {
		t.Errorf("expected joined price and category, got %+v", buy)
	}
}

func TestListBuys(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	book, account := seedBorrowFixtures(t, database)

	CreateBuy(ctx, database, book.ID, account.ID, time.Now())
	CreateBuy(ctx, database, book.ID, account.ID, time.Now())

	buys, _ := ListBuys(ctx, database)
	if len(buys) != 2 {
		t.Errorf("expected 2 buys, got %d", len(buys))
	}
}

func TestCountBuysByBook(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	book, account := seedBorrowFixtures(t, database)

	CreateBuy(ctx, database, book.ID, account.ID, time.Now())
	CreateBuy(ctx, database, book.ID, account.ID, time.Now())

	counts, _ := CountBuysByBook(ctx, database)
	if counts["The Hobbit"] != 2 {
		t.Errorf("expected 2 sales, got %d", counts["The Hobbit"])
	}
}
