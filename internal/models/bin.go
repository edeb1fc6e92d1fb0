package models

import (
	"strings"
	"time"

	"swms-backend/internal/apperrors"
)

const (
	BinPending   = "pending"
	BinCompleted = "completed"
)

const (
	CapacityLow    = "low"
	CapacityMedium = "medium"
	CapacityHigh   = "high"
)

const (
	CleaningDaily   = "daily"
	CleaningWeekly  = "weekly"
	CleaningMonthly = "monthly"
)

type Bin struct {
	ID             string  `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Location       string  `json:"location" db:"location"`
	Capacity       string  `json:"capacity" db:"capacity"` // low, medium, high
	AssignedDriver *string `json:"assigned_driver,omitempty" db:"assigned_driver"`
	CleaningPeriod string  `json:"cleaning_period" db:"cleaning_period"` // daily, weekly, monthly
	Status         string  `json:"status" db:"status"`                   // pending, completed
	FillLevel      int     `json:"fill_level" db:"fill_level"`           // 0-100
	LastCleaned    *int64  `json:"last_cleaned,omitempty" db:"last_cleaned"` // Unix timestamp
	CreatedAt      int64   `json:"created_at" db:"created_at"`
	UpdatedAt      int64   `json:"updated_at" db:"updated_at"`
}

// BinResponse is what we send to the client with ISO timestamps
type BinResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	Capacity       string  `json:"capacity"`
	AssignedDriver *string `json:"assigned_driver,omitempty"`
	CleaningPeriod string  `json:"cleaning_period"`
	Status         string  `json:"status"`
	FillLevel      int     `json:"fill_level"`
	LastCleanedIso *string `json:"lastCleanedIso,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}

func (b *Bin) ToBinResponse() BinResponse {
	resp := BinResponse{
		ID:             b.ID,
		Name:           b.Name,
		Location:       b.Location,
		Capacity:       b.Capacity,
		AssignedDriver: b.AssignedDriver,
		CleaningPeriod: b.CleaningPeriod,
		Status:         b.Status,
		FillLevel:      b.FillLevel,
		CreatedAt:      b.CreatedAt,
	}
	if b.LastCleaned != nil {
		iso := time.Unix(*b.LastCleaned, 0).UTC().Format(time.RFC3339)
		resp.LastCleanedIso = &iso
	}
	return resp
}

func ValidBinStatus(s string) bool {
	return s == BinPending || s == BinCompleted
}

func ValidCapacity(c string) bool {
	return c == CapacityLow || c == CapacityMedium || c == CapacityHigh
}

func ValidCleaningPeriod(p string) bool {
	return p == CleaningDaily || p == CleaningWeekly || p == CleaningMonthly
}

// CreateBinRequest is the request body for POST /api/bins
type CreateBinRequest struct {
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	Capacity       string  `json:"capacity"`
	AssignedDriver *string `json:"assigned_driver,omitempty"`
	CleaningPeriod string  `json:"cleaning_period"`
	FillLevel      *int    `json:"fill_level,omitempty"`
}

func (r *CreateBinRequest) Validate() (string, error) {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Location) == "" {
		return "Name and location are required", apperrors.ErrValidation
	}
	if !ValidCapacity(r.Capacity) {
		return "Capacity must be 'low', 'medium', or 'high'", apperrors.ErrValidation
	}
	if !ValidCleaningPeriod(r.CleaningPeriod) {
		return "Cleaning period must be 'daily', 'weekly', or 'monthly'", apperrors.ErrValidation
	}
	if r.FillLevel != nil && (*r.FillLevel < 0 || *r.FillLevel > 100) {
		return "Fill level must be between 0 and 100", apperrors.ErrValidation
	}
	return "", nil
}

// UpdateBinRequest is the request body for PUT /api/bins/{id} (admin
// full replace). Status may move anywhere within the bin status set.
type UpdateBinRequest struct {
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	Capacity       string  `json:"capacity"`
	AssignedDriver *string `json:"assigned_driver,omitempty"`
	CleaningPeriod string  `json:"cleaning_period"`
	Status         string  `json:"status"`
	FillLevel      *int    `json:"fill_level,omitempty"`
}

// UpdateBinStatusRequest is the request body for PUT /api/bins/{id}/status
// (assigned driver only).
type UpdateBinStatusRequest struct {
	Status    string `json:"status"`
	FillLevel *int   `json:"fill_level,omitempty"`
}
