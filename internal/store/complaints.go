package store

import (
	"database/sql"
	"fmt"
	"time"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Complaints struct {
	db *sqlx.DB
}

func NewComplaints(db *sqlx.DB) *Complaints {
	return &Complaints{db: db}
}

func (s *Complaints) Create(c *models.Complaint) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().Unix()
	if c.Status == "" {
		c.Status = models.ComplaintPending
	}

	_, err := s.db.Exec(`
		INSERT INTO complaints (id, user_id, bin_id, suggested_bin, description,
		                        status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.UserID, c.BinID, c.SuggestedBin, c.Description,
		c.Status, c.CreatedAt, c.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

func (s *Complaints) GetByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.db.Get(&c, "SELECT * FROM complaints WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: complaint %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch complaint: %w", err)
	}
	return &c, nil
}

func (s *Complaints) List() ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	err := s.db.Select(&complaints, "SELECT * FROM complaints ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

func (s *Complaints) ListByUser(userID string) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	err := s.db.Select(&complaints,
		"SELECT * FROM complaints WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user complaints: %w", err)
	}
	return complaints, nil
}

// SetStatus applies a validated status transition together with its
// resolved_at side effect in one statement.
func (s *Complaints) SetStatus(id, status string, resolvedAt *int64) (*models.Complaint, error) {
	res, err := s.db.Exec(`
		UPDATE complaints SET status = $1, resolved_at = $2 WHERE id = $3
	`, status, resolvedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, fmt.Errorf("%w: complaint %s", apperrors.ErrNotFound, id)
	}
	return s.GetByID(id)
}
