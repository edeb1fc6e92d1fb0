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

type Schedules struct {
	db *sqlx.DB
}

func NewSchedules(db *sqlx.DB) *Schedules {
	return &Schedules{db: db}
}

func (s *Schedules) Create(sch *models.Schedule) error {
	now := time.Now().Unix()
	sch.ID = uuid.New().String()
	sch.CreatedAt = now
	sch.UpdatedAt = now
	if sch.Status == "" {
		sch.Status = models.SchedulePending
	}

	_, err := s.db.Exec(`
		INSERT INTO schedules (id, user_id, location, date, time, waste_type,
		                       reason, assigned_driver, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, sch.ID, sch.UserID, sch.Location, sch.Date, sch.Time, sch.WasteType,
		sch.Reason, sch.AssignedDriver, sch.Status, sch.CreatedAt, sch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (s *Schedules) GetByID(id string) (*models.Schedule, error) {
	var sch models.Schedule
	err := s.db.Get(&sch, "SELECT * FROM schedules WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &sch, nil
}

func (s *Schedules) List() ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	err := s.db.Select(&schedules, "SELECT * FROM schedules ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (s *Schedules) ListByUser(userID string) ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	err := s.db.Select(&schedules,
		"SELECT * FROM schedules WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user schedules: %w", err)
	}
	return schedules, nil
}

func (s *Schedules) ListByDriver(driverID string) ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	err := s.db.Select(&schedules,
		"SELECT * FROM schedules WHERE assigned_driver = $1 ORDER BY created_at DESC", driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned schedules: %w", err)
	}
	return schedules, nil
}

// SetStatus applies a validated status transition. When assignedDriver
// is non-nil it is persisted in the same statement, so assignment and
// approval land atomically.
func (s *Schedules) SetStatus(id, status string, assignedDriver *string) (*models.Schedule, error) {
	now := time.Now().Unix()
	query := "UPDATE schedules SET status = $1, updated_at = $2"
	args := []interface{}{status, now}
	if assignedDriver != nil {
		args = append(args, *assignedDriver)
		query += fmt.Sprintf(", assigned_driver = $%d", len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, id)
	}
	return s.GetByID(id)
}
