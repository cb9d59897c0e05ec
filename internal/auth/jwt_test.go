package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSecret = []byte("super-secret-key")

func TestToken_RoundTrip(t *testing.T) {
	userID := uuid.New()

	tokenString, err := GenerateToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	got, err := GetUserIDFromToken(tokenString, testSecret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken: %v", err)
	}
	if got != userID {
		t.Errorf("user id mismatch: got %s, want %s", got, userID)
	}
}

func TestToken_ExpiredRejected(t *testing.T) {
	tokenString, err := GenerateToken(uuid.New(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := GetUserIDFromToken(tokenString, testSecret); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestToken_WrongSecretRejected(t *testing.T) {
	tokenString, err := GenerateToken(uuid.New(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := GetUserIDFromToken(tokenString, []byte("another-secret")); err == nil {
		t.Error("expected error for wrong secret, got nil")
	}
}

func TestToken_MalformedRejected(t *testing.T) {
	if _, err := GetUserIDFromToken("not.a.token", testSecret); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}

func TestToken_NonHS256MethodRejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.NewString(),
	})
	tokenString, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := GetUserIDFromToken(tokenString, testSecret); err == nil {
		t.Error("expected error for token signed with a non-HS256 method, got nil")
	}
}

func TestToken_BadUserIDClaimRejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "not-a-uuid",
	})
	tokenString, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := GetUserIDFromToken(tokenString, testSecret); err == nil {
		t.Error("expected error for non-uuid user id claim, got nil")
	}
}
