package middleware

import (
	"testing"
	"time"

	"eschool_go/config"
	"eschool_go/models"

	"github.com/golang-jwt/jwt/v4"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret-key-for-signing",
		JWTExpiresIn: time.Hour,
	}

	user := &models.User{
		Username: "accountant1",
		Role:     "accountant",
	}
	user.ID = 42

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		t.Fatalf("expected valid claims")
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Username != "accountant1" {
		t.Fatalf("expected username accountant1, got %s", claims.Username)
	}
	if claims.Role != "accountant" {
		t.Fatalf("expected role accountant, got %s", claims.Role)
	}
}

func TestBlacklistKey(t *testing.T) {
	// logout writes this key and JWTMiddleware reads it back; the namespace
	// must stay stable or revocation silently stops working
	if got := BlacklistKey("abc.def.ghi"); got != "blacklist:jwt:abc.def.ghi" {
		t.Fatalf("unexpected blacklist key %q", got)
	}
}

func TestTokenRevokedWithoutRedis(t *testing.T) {
	// no Redis client configured means no blacklist; tokens must not be
	// treated as revoked
	if tokenRevoked("some-token") {
		t.Fatal("token reported revoked with no Redis client")
	}
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:    "test-secret-key-for-signing",
		JWTExpiresIn: time.Hour,
	}

	user := &models.User{Username: "u", Role: "student"}
	user.ID = 1

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret"), nil
	})
	if err == nil {
		t.Fatalf("expected signature validation to fail")
	}
}
