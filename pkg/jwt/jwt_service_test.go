package jwt

import (
	"testing"

	"Planeat-Backend/domain"
)

func newTestService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "PLANEAT"}
}

func TestGenerateAndParseToken(t *testing.T) {
	service := newTestService()

	token := service.GenerateTokenUser("9b9f2f1e-1111-2222-3333-444455556666", domain.RoleUser)
	if token == "" {
		t.Fatal("expected a signed token")
	}

	userID, role, err := service.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != "9b9f2f1e-1111-2222-3333-444455556666" {
		t.Fatalf("unexpected user id %q", userID)
	}
	if role != domain.RoleUser {
		t.Fatalf("unexpected role %q", role)
	}
}

func TestParseTokenWithWrongSecret(t *testing.T) {
	token := newTestService().GenerateTokenUser("user", domain.RoleUser)

	other := &jwtService{secretKey: "other-secret", issuer: "PLANEAT"}
	if _, _, err := other.GetUserIDByToken(token); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseGarbageToken(t *testing.T) {
	if _, _, err := newTestService().GetUserIDByToken("not.a.token"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
