package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret-pw") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestPasswordHashesDiffer(t *testing.T) {
	h1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}

	signed, err := tokens.Generate(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Count(signed, ".") != 2 {
		t.Errorf("token %q is not a three-part JWT", signed)
	}

	userID, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestTokensRejectShortSecret(t *testing.T) {
	if _, err := NewTokens("short", time.Hour); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestTokensRejectWrongSecret(t *testing.T) {
	a, _ := NewTokens("test-secret-test-secret", time.Hour)
	b, _ := NewTokens("other-secret-other-secret", time.Hour)

	signed, err := a.Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := b.Validate(signed); err == nil {
		t.Error("token signed with different secret should fail validation")
	}
}

func TestTokensRejectExpired(t *testing.T) {
	tokens, _ := NewTokens("test-secret-test-secret", -time.Minute)

	signed, err := tokens.Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tokens.Validate(signed); err == nil {
		t.Error("expired token should fail validation")
	}
}

func TestTokensRejectGarbage(t *testing.T) {
	tokens, _ := NewTokens("test-secret-test-secret", time.Hour)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Validate(bad); err == nil {
			t.Errorf("Validate(%q) should fail", bad)
		}
	}
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	if got := UserID(ctx); got != 0 {
		t.Errorf("UserID on empty context = %d, want 0", got)
	}

	ctx = WithUserID(ctx, 7)
	if got := UserID(ctx); got != 7 {
		t.Errorf("UserID = %d, want 7", got)
	}
}
