package models

import (
	"strings"
	"time"

	"swms-backend/internal/apperrors"
)

const (
	SchedulePending   = "pending"
	ScheduleApproved  = "approved"
	ScheduleRejected  = "rejected"
	ScheduleCompleted = "completed"
)

// Schedule is a custom pickup request raised by a citizen and worked
// by admins and drivers.
type Schedule struct {
	ID             string  `json:"id" db:"id"`
	UserID         string  `json:"user_id" db:"user_id"`
	Location       string  `json:"location" db:"location"`
	Date           string  `json:"date" db:"date"`
	Time           string  `json:"time" db:"time"`
	WasteType      string  `json:"waste_type" db:"waste_type"`
	Reason         string  `json:"reason" db:"reason"`
	AssignedDriver *string `json:"assigned_driver,omitempty" db:"assigned_driver"`
	Status         string  `json:"status" db:"status"` // pending, approved, rejected, completed
	CreatedAt      int64   `json:"created_at" db:"created_at"`
	UpdatedAt      int64   `json:"updated_at" db:"updated_at"`
}

type ScheduleResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Location       string  `json:"location"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	WasteType      string  `json:"waste_type"`
	Reason         string  `json:"reason"`
	AssignedDriver *string `json:"assigned_driver,omitempty"`
	Status         string  `json:"status"`
	CreatedAt      int64   `json:"created_at"`
	UpdatedAtIso   string  `json:"updatedAtIso"`
}

func (s *Schedule) ToScheduleResponse() ScheduleResponse {
	return ScheduleResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		Location:       s.Location,
		Date:           s.Date,
		Time:           s.Time,
		WasteType:      s.WasteType,
		Reason:         s.Reason,
		AssignedDriver: s.AssignedDriver,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAtIso:   time.Unix(s.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
}

func ValidScheduleStatus(s string) bool {
	switch s {
	case SchedulePending, ScheduleApproved, ScheduleRejected, ScheduleCompleted:
		return true
	}
	return false
}

// CreateScheduleRequest is the request body for POST /api/schedules.
// The address doubles as the pickup location, matching the mobile app.
type CreateScheduleRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	WasteType string `json:"wasteType"`
	Reason    string `json:"reason"`
	Address   string `json:"address"`
}

func (r *CreateScheduleRequest) Validate() (string, error) {
	if strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.Time) == "" ||
		strings.TrimSpace(r.WasteType) == "" || strings.TrimSpace(r.Reason) == "" ||
		strings.TrimSpace(r.Address) == "" {
		return "All fields are required", apperrors.ErrValidation
	}
	return "", nil
}

// UpdateScheduleRequest is the request body for PUT /api/schedules/{id}.
// AssignedDriver is only accepted alongside a transition to approved.
type UpdateScheduleRequest struct {
	Status         string  `json:"status"`
	AssignedDriver *string `json:"assignedDriver,omitempty"`
}
