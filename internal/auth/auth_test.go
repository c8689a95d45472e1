package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/papertrade/paper-trading-simulator/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword(hash, "secret123") {
		t.Errorf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Errorf("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := &models.User{ID: "u1", Username: "alice"}

	token, err := NewToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	uid, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if uid != "u1" {
		t.Errorf("expected uid u1, got %s", uid)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}
	token, err := NewToken(user, []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	_, err = ParseToken(token, []byte("wrong"))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	user := &models.User{ID: "u1", Username: "alice"}

	token, err := NewToken(user, secret, -time.Minute)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	_, err = ParseToken(token, secret)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got: %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", []byte("secret"))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
}
