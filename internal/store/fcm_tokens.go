package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// FCMTokens tracks device push tokens per user. A token moves between
// users on conflict (same device, new login).
type FCMTokens struct {
	db *sqlx.DB
}

func NewFCMTokens(db *sqlx.DB) *FCMTokens {
	return &FCMTokens{db: db}
}

func (s *FCMTokens) Register(userID, token, deviceType string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token)
		DO UPDATE SET user_id = EXCLUDED.user_id,
		              device_type = EXCLUDED.device_type,
		              updated_at = EXCLUDED.updated_at
	`, userID, token, deviceType, now, now)
	if err != nil {
		return fmt.Errorf("failed to register FCM token: %w", err)
	}
	return nil
}

func (s *FCMTokens) ListByUser(userID string) ([]string, error) {
	tokens := []string{}
	err := s.db.Select(&tokens, "SELECT token FROM fcm_tokens WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list FCM tokens: %w", err)
	}
	return tokens, nil
}
