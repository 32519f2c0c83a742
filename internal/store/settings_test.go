package store

import (
	"context"
	"testing"

	"github.com/erazemk/knjiznica/internal/db"
)

func TestGetJWTSecretGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}

	second, _ := GetJWTSecret(ctx, database)
	if first != second {
		t.Error("secret should be stable across calls")
	}
}
