package auth

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret", 3600)

	token, err := GenerateToken(RoleCashier, 3, 7, "Till One")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Role != RoleCashier || claims.CounterID != 3 || claims.CashierID != 7 || claims.CashierName != "Till One" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	Init("test-secret", 3600)

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("malformed token accepted")
	}

	token, err := GenerateToken(RoleAdmin, 0, 0, "")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	Init("other-secret", 3600)
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different key accepted")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	Init("test-secret", -60)

	token, err := GenerateToken(RoleAdmin, 0, 0, "")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ValidateToken(token); err == nil {
		t.Error("expired token accepted")
	}
}
