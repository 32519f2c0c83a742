package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/knjiznica/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, _ := IsTokenRevoked(ctx, database, "some-jti")
	if revoked {
		t.Error("unknown jti should not be revoked")
	}

	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "some-jti")
	if !revoked {
		t.Error("jti should be revoked after RevokeToken")
	}
}

func TestRevokeTokenIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	RevokeToken(ctx, database, "some-jti", expires)
	if err := RevokeToken(ctx, database, "some-jti", expires); err != nil {
		t.Errorf("second RevokeToken should not fail: %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeToken(ctx, database, "old-jti", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "new-jti", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "old-jti")
	if revoked {
		t.Error("expired revocation should have been cleaned up")
	}
}
