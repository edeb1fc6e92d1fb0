package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// Claims is the identity a verified token resolves to.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Service issues and verifies bearer tokens. Verification is a pure
// computation; the service holds no connections.
type Service struct {
	secret []byte

	// bypassToken, when non-empty, is a development-only literal that
	// resolves to an admin identity. config.Load only populates it
	// when APP_ENV=development.
	bypassToken string
}

func NewService(secret, bypassToken string) *Service {
	return &Service{
		secret:      []byte(secret),
		bypassToken: bypassToken,
	}
}

// Issue creates a signed token carrying the user's id, email and role,
// valid for 24 hours.
func (s *Service) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify resolves a token to its claims. Rejections are distinct so
// clients can tell whether to re-authenticate (expired) or treat the
// credential as bogus (malformed, bad signature).
func (s *Service) Verify(tokenString string) (Claims, error) {
	if s.bypassToken != "" && tokenString == s.bypassToken {
		return Claims{UserID: "dev-admin", Email: "dev-admin@localhost", Role: models.RoleAdmin}, nil
	}

	// Structural check before cryptographic parsing: a JWT has
	// exactly three dot-separated segments.
	if strings.Count(tokenString, ".") != 2 {
		return Claims{}, apperrors.ErrMalformedToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return Claims{}, apperrors.ErrInvalidSignature
		default:
			return Claims{}, apperrors.ErrMalformedToken
		}
	}
	if !token.Valid {
		return Claims{}, apperrors.ErrInvalidSignature
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperrors.ErrMalformedToken
	}

	userID, _ := mapClaims["user_id"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || role == "" {
		return Claims{}, apperrors.ErrMalformedToken
	}

	return Claims{UserID: userID, Email: email, Role: role}, nil
}
