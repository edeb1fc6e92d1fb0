package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Users persists accounts. Stores assign ids and timestamps; they
// never enforce workflow rules.
type Users struct {
	db *sqlx.DB
}

func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Create(user *models.User) error {
	now := time.Now().Unix()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO users (id, email, password, first_name, last_name, role,
		                   driver_pin, driver_status, phone, address, photo, area,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.Role,
		user.DriverPin, user.DriverStatus, user.Phone, user.Address, user.Photo, user.Area,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Users) GetByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *Users) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no user with that email", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// List returns users, optionally filtered by role and driver status.
func (s *Users) List(role, driverStatus string) ([]models.User, error) {
	query := "SELECT * FROM users WHERE 1=1"
	args := []interface{}{}
	if role != "" {
		args = append(args, role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if driverStatus != "" {
		args = append(args, driverStatus)
		query += fmt.Sprintf(" AND driver_status = $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	users := []models.User{}
	if err := s.db.Select(&users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil profile fields and returns the
// updated user.
func (s *Users) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
	}
	if req.Area != nil {
		user.Area = *req.Area
	}
	user.UpdatedAt = time.Now().Unix()

	_, err = s.db.Exec(`
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, address = $4,
		    photo = $5, area = $6, updated_at = $7
		WHERE id = $8
	`, user.FirstName, user.LastName, user.Phone, user.Address,
		user.Photo, user.Area, user.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
