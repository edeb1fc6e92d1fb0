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

type Bins struct {
	db *sqlx.DB
}

func NewBins(db *sqlx.DB) *Bins {
	return &Bins{db: db}
}

func (s *Bins) Create(bin *models.Bin) error {
	now := time.Now().Unix()
	bin.ID = uuid.New().String()
	bin.CreatedAt = now
	bin.UpdatedAt = now
	if bin.Status == "" {
		bin.Status = models.BinPending
	}

	_, err := s.db.Exec(`
		INSERT INTO bins (id, name, location, capacity, assigned_driver,
		                  cleaning_period, status, fill_level, last_cleaned,
		                  created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, bin.ID, bin.Name, bin.Location, bin.Capacity, bin.AssignedDriver,
		bin.CleaningPeriod, bin.Status, bin.FillLevel, bin.LastCleaned,
		bin.CreatedAt, bin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bin: %w", err)
	}
	return nil
}

func (s *Bins) GetByID(id string) (*models.Bin, error) {
	var bin models.Bin
	err := s.db.Get(&bin, "SELECT * FROM bins WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: bin %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bin: %w", err)
	}
	return &bin, nil
}

func (s *Bins) List() ([]models.Bin, error) {
	bins := []models.Bin{}
	err := s.db.Select(&bins, "SELECT * FROM bins ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list bins: %w", err)
	}
	return bins, nil
}

// ListByDriver returns the bins assigned to one driver.
func (s *Bins) ListByDriver(driverID string) ([]models.Bin, error) {
	bins := []models.Bin{}
	err := s.db.Select(&bins,
		"SELECT * FROM bins WHERE assigned_driver = $1 ORDER BY created_at ASC", driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned bins: %w", err)
	}
	return bins, nil
}

// Replace overwrites the mutable bin fields (admin full update).
func (s *Bins) Replace(bin *models.Bin) error {
	bin.UpdatedAt = time.Now().Unix()
	res, err := s.db.Exec(`
		UPDATE bins
		SET name = $1, location = $2, capacity = $3, assigned_driver = $4,
		    cleaning_period = $5, status = $6, fill_level = $7,
		    last_cleaned = $8, updated_at = $9
		WHERE id = $10
	`, bin.Name, bin.Location, bin.Capacity, bin.AssignedDriver,
		bin.CleaningPeriod, bin.Status, bin.FillLevel,
		bin.LastCleaned, bin.UpdatedAt, bin.ID)
	if err != nil {
		return fmt.Errorf("failed to update bin: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: bin %s", apperrors.ErrNotFound, bin.ID)
	}
	return nil
}

// SetStatus applies a validated status transition. lastCleaned is
// written in the same statement so the transition is atomic.
func (s *Bins) SetStatus(id, status string, fillLevel *int, lastCleaned *int64) (*models.Bin, error) {
	now := time.Now().Unix()
	query := "UPDATE bins SET status = $1, updated_at = $2"
	args := []interface{}{status, now}
	if lastCleaned != nil {
		args = append(args, *lastCleaned)
		query += fmt.Sprintf(", last_cleaned = $%d", len(args))
	}
	if fillLevel != nil {
		args = append(args, *fillLevel)
		query += fmt.Sprintf(", fill_level = $%d", len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update bin status: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, fmt.Errorf("%w: bin %s", apperrors.ErrNotFound, id)
	}
	return s.GetByID(id)
}

func (s *Bins) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM bins WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete bin: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: bin %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// ReopenOverdue flips completed bins back to pending when their
// cleaning period has elapsed since last_cleaned. Returns how many
// bins were reopened.
func (s *Bins) ReopenOverdue(now time.Time) (int64, error) {
	cutoffs := map[string]int64{
		models.CleaningDaily:   now.Add(-24 * time.Hour).Unix(),
		models.CleaningWeekly:  now.Add(-7 * 24 * time.Hour).Unix(),
		models.CleaningMonthly: now.Add(-30 * 24 * time.Hour).Unix(),
	}

	var total int64
	for period, cutoff := range cutoffs {
		res, err := s.db.Exec(`
			UPDATE bins
			SET status = $1, updated_at = $2
			WHERE status = $3 AND cleaning_period = $4
			  AND last_cleaned IS NOT NULL AND last_cleaned < $5
		`, models.BinPending, now.Unix(), models.BinCompleted, period, cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to reopen %s bins: %w", period, err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			total += rows
		}
	}
	return total, nil
}
