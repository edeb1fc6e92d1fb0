package models

import (
	"strings"
	"time"

	"swms-backend/internal/apperrors"
)

const (
	ComplaintPending   = "pending"
	ComplaintCompleted = "completed"
)

// Complaint is a citizen report about an existing bin, or a suggestion
// for a new one (SuggestedBin set, BinID empty). One of the two must be
// present.
type Complaint struct {
	ID           string  `json:"id" db:"id"`
	UserID       string  `json:"user_id" db:"user_id"`
	BinID        *string `json:"bin_id,omitempty" db:"bin_id"`
	SuggestedBin bool    `json:"suggested_bin" db:"suggested_bin"`
	Description  string  `json:"description" db:"description"`
	Status       string  `json:"status" db:"status"` // pending, completed
	CreatedAt    int64   `json:"created_at" db:"created_at"`
	ResolvedAt   *int64  `json:"resolved_at,omitempty" db:"resolved_at"`
}

type ComplaintResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	BinID         *string `json:"bin_id,omitempty"`
	SuggestedBin  bool    `json:"suggested_bin"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	CreatedAt     int64   `json:"created_at"`
	ResolvedAtIso *string `json:"resolvedAtIso,omitempty"`
}

func (c *Complaint) ToComplaintResponse() ComplaintResponse {
	resp := ComplaintResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		BinID:        c.BinID,
		SuggestedBin: c.SuggestedBin,
		Description:  c.Description,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
	if c.ResolvedAt != nil {
		iso := time.Unix(*c.ResolvedAt, 0).UTC().Format(time.RFC3339)
		resp.ResolvedAtIso = &iso
	}
	return resp
}

func ValidComplaintStatus(s string) bool {
	return s == ComplaintPending || s == ComplaintCompleted
}

// CreateComplaintRequest is the request body for POST /api/complaints.
type CreateComplaintRequest struct {
	BinID        *string `json:"bin_id,omitempty"`
	SuggestedBin bool    `json:"suggested_bin"`
	Description  string  `json:"description"`
}

func (r *CreateComplaintRequest) Validate() (string, error) {
	if strings.TrimSpace(r.Description) == "" {
		return "Description is required", apperrors.ErrValidation
	}
	if (r.BinID == nil || strings.TrimSpace(*r.BinID) == "") && !r.SuggestedBin {
		return "Either a bin reference or the suggested bin flag is required", apperrors.ErrValidation
	}
	return "", nil
}

// UpdateComplaintRequest is the request body for PUT /api/complaints/{id}.
type UpdateComplaintRequest struct {
	Status string `json:"status"`
}
