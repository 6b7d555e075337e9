package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func parseClaims(t *testing.T, secret, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", tok.Claims)
	}
	return claims
}

func TestNewAccessTokenCustomerClaims(t *testing.T) {
	at, err := NewAccessToken("s3cret", 12, "CUSTOMER", nil, 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims := parseClaims(t, "s3cret", at.Token)
	if claims["sub"] != float64(12) {
		t.Fatalf("sub = %v", claims["sub"])
	}
	if claims["role"] != "CUSTOMER" {
		t.Fatalf("role = %v", claims["role"])
	}
	if _, ok := claims["restaurant_id"]; ok {
		t.Fatal("customer token must not carry restaurant_id")
	}
	if at.Exp.Before(time.Now().Add(14 * time.Minute)) {
		t.Fatalf("expiry too early: %v", at.Exp)
	}
}

func TestNewAccessTokenAgentCarriesRestaurant(t *testing.T) {
	rid := uint64(5)
	at, err := NewAccessToken("s3cret", 3, "AGENT", &rid, 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims := parseClaims(t, "s3cret", at.Token)
	if claims["role"] != "AGENT" {
		t.Fatalf("role = %v", claims["role"])
	}
	if claims["restaurant_id"] != float64(5) {
		t.Fatalf("restaurant_id = %v", claims["restaurant_id"])
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rt.Raw == "" {
		t.Fatal("empty refresh token")
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash must be deterministic")
	}
	other, _ := NewRefreshToken(7)
	if rt.Raw == other.Raw {
		t.Fatal("refresh tokens must be unique")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}
