package helper

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	token, err := auth.GenerateToken(42, "alice", "Admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != "Admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Expiry <= claims.Iat {
		t.Fatalf("expiry %v not after iat %v", claims.Expiry, claims.Iat)
	}
}

func TestVerifyTokenBearerPrefix(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	token, err := auth.GenerateToken(7, "mark", "Manager")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.VerifyToken("Bearer " + token)
	if err != nil {
		t.Fatalf("verify with prefix: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user = %d, want 7", claims.UserID)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := SetupAuth("secret-a").GenerateToken(1, "eve", "Employee")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := SetupAuth("secret-b").VerifyToken(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	auth := SetupAuth("unit-test-secret")
	for _, bad := range []string{"", "   ", "Bearer ", "not.a.token"} {
		if _, err := auth.VerifyToken(bad); err == nil {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestGenerateTokenRequiresInputs(t *testing.T) {
	auth := SetupAuth("unit-test-secret")
	if _, err := auth.GenerateToken(0, "alice", "Admin"); err == nil {
		t.Fatal("accepted zero user id")
	}
	if _, err := auth.GenerateToken(1, "", "Admin"); err == nil {
		t.Fatal("accepted empty username")
	}
}

func TestPasswordHashing(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	if _, err := auth.HashPassword("short"); err == nil {
		t.Fatal("accepted password under 6 characters")
	}

	hashed, err := auth.HashPassword("longenough")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hashed, "longenough") {
		t.Fatal("hash contains the plain text")
	}
	if err := auth.VerifyPassword("longenough", hashed); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := auth.VerifyPassword("different", hashed); err == nil {
		t.Fatal("wrong password accepted")
	}
}
