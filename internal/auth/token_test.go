package auth

import (
	"errors"
	"testing"
	"time"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func testUser() *models.User {
	return &models.User{
		ID:    "user-1",
		Email: "citizen@example.com",
		Role:  models.RoleCitizen,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService(testSecret, "")

	for _, role := range []string{models.RoleCitizen, models.RoleDriver, models.RoleAdmin} {
		user := testUser()
		user.Role = role

		token, err := svc.Issue(user)
		if err != nil {
			t.Fatalf("Issue(%s): %v", role, err)
		}

		claims, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%s): %v", role, err)
		}
		if claims.UserID != user.ID {
			t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
		}
		if claims.Role != role {
			t.Errorf("Role = %q, want %q", claims.Role, role)
		}
		if claims.Email != user.Email {
			t.Errorf("Email = %q, want %q", claims.Email, user.Email)
		}
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewService(testSecret, "")

	// Forge a token that expired an hour ago with the right secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "citizen@example.com",
		"role":    models.RoleCitizen,
		"iat":     time.Now().Add(-25 * time.Hour).Unix(),
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Verify(tokenString)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("Verify(expired) = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSignature(t *testing.T) {
	other := NewService("some-other-secret", "")
	token, err := other.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(testSecret, "")
	_, err = svc.Verify(token)
	if !errors.Is(err, apperrors.ErrInvalidSignature) {
		t.Errorf("Verify(wrong signature) = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewService(testSecret, "")

	for _, bogus := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(bogus); !errors.Is(err, apperrors.ErrMalformedToken) {
			t.Errorf("Verify(%q) = %v, want ErrMalformedToken", bogus, err)
		}
	}
}

func TestVerifyMissingIdentityClaims(t *testing.T) {
	svc := NewService(testSecret, "")

	// Structurally valid and correctly signed, but missing user_id.
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := anonymous.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Verify(tokenString); !errors.Is(err, apperrors.ErrMalformedToken) {
		t.Errorf("Verify(no identity claims) = %v, want ErrMalformedToken", err)
	}
}

func TestBypassTokenDisabledByDefault(t *testing.T) {
	svc := NewService(testSecret, "")

	if _, err := svc.Verify("dev-bypass"); err == nil {
		t.Error("bypass token accepted with no bypass configured")
	}
}

func TestBypassTokenResolvesAdmin(t *testing.T) {
	svc := NewService(testSecret, "dev-bypass")

	claims, err := svc.Verify("dev-bypass")
	if err != nil {
		t.Fatalf("Verify(bypass) = %v", err)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("bypass role = %q, want admin", claims.Role)
	}

	// Any other literal still goes through normal verification.
	if _, err := svc.Verify("dev-bypas"); err == nil {
		t.Error("near-miss bypass literal accepted")
	}
}
