package workflow

import (
	"errors"
	"testing"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/auth"
	"swms-backend/internal/models"
)

var (
	admin   = auth.Claims{UserID: "admin-1", Role: models.RoleAdmin}
	driver  = auth.Claims{UserID: "driver-1", Role: models.RoleDriver}
	citizen = auth.Claims{UserID: "citizen-1", Role: models.RoleCitizen}
)

func TestBinTransitions(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
		effects Effects
	}{
		{
			name:    "admin pending to completed",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: models.BinCompleted, Actor: admin},
			effects: Effects{SetLastCleaned: true},
		},
		{
			name: "admin reopens completed bin",
			req:  Request{Entity: BinEntity, From: models.BinCompleted, To: models.BinPending, Actor: admin},
		},
		{
			name:    "assigned driver completes pending bin",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: models.BinCompleted, Actor: driver, AssignedDriver: "driver-1"},
			effects: Effects{SetLastCleaned: true},
		},
		{
			name:    "unassigned driver rejected",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: models.BinCompleted, Actor: driver},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "driver assigned to someone else rejected",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: models.BinCompleted, Actor: driver, AssignedDriver: "driver-2"},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "driver cannot reopen even their own bin",
			req:     Request{Entity: BinEntity, From: models.BinCompleted, To: models.BinPending, Actor: driver, AssignedDriver: "driver-1"},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "citizen cannot touch bins",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: models.BinCompleted, Actor: citizen},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "unknown target status",
			req:     Request{Entity: BinEntity, From: models.BinPending, To: "overflowing", Actor: admin},
			wantErr: apperrors.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects, err := Validate(tt.req)
			checkVerdict(t, effects, err, tt.effects, tt.wantErr)
		})
	}
}

func TestComplaintTransitions(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
		effects Effects
	}{
		{
			name:    "admin resolves complaint",
			req:     Request{Entity: ComplaintEntity, From: models.ComplaintPending, To: models.ComplaintCompleted, Actor: admin},
			effects: Effects{SetResolvedAt: true},
		},
		{
			name:    "admin reopens resolved complaint clears timestamp",
			req:     Request{Entity: ComplaintEntity, From: models.ComplaintCompleted, To: models.ComplaintPending, Actor: admin},
			effects: Effects{ClearResolvedAt: true},
		},
		{
			name:    "driver cannot update complaints",
			req:     Request{Entity: ComplaintEntity, From: models.ComplaintPending, To: models.ComplaintCompleted, Actor: driver},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "reporter cannot update own complaint",
			req:     Request{Entity: ComplaintEntity, From: models.ComplaintPending, To: models.ComplaintCompleted, Actor: citizen},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "unknown target status",
			req:     Request{Entity: ComplaintEntity, From: models.ComplaintPending, To: "escalated", Actor: admin},
			wantErr: apperrors.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects, err := Validate(tt.req)
			checkVerdict(t, effects, err, tt.effects, tt.wantErr)
		})
	}
}

func TestScheduleTransitions(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
		effects Effects
	}{
		{
			name:    "admin approves pending",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleApproved, Actor: admin},
			effects: Effects{TouchUpdatedAt: true},
		},
		{
			name:    "admin approves pending with driver assignment",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleApproved, Actor: admin, AssigningDriver: true},
			effects: Effects{TouchUpdatedAt: true},
		},
		{
			name:    "admin rejects pending",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleRejected, Actor: admin},
			effects: Effects{TouchUpdatedAt: true},
		},
		{
			name:    "driver cannot approve",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleApproved, Actor: driver},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "cannot approve an already approved schedule",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleApproved, Actor: admin},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "cannot reject a completed schedule",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleCompleted, To: models.ScheduleRejected, Actor: admin},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "admin completes approved",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleCompleted, Actor: admin},
			effects: Effects{TouchUpdatedAt: true},
		},
		{
			name:    "assigned driver completes approved",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleCompleted, Actor: driver, AssignedDriver: "driver-1"},
			effects: Effects{TouchUpdatedAt: true},
		},
		{
			name:    "unassigned driver cannot complete",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleCompleted, Actor: driver},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "driver assigned to someone else cannot complete",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleCompleted, Actor: driver, AssignedDriver: "driver-2"},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "cannot complete straight from pending",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleCompleted, Actor: admin},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "owner cannot complete own schedule",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.ScheduleCompleted, Actor: citizen},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "cannot return to pending",
			req:     Request{Entity: ScheduleEntity, From: models.ScheduleApproved, To: models.SchedulePending, Actor: admin},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "cannot assign a driver while rejecting",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: models.ScheduleRejected, Actor: admin, AssigningDriver: true},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "unknown target status",
			req:     Request{Entity: ScheduleEntity, From: models.SchedulePending, To: "deferred", Actor: admin},
			wantErr: apperrors.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects, err := Validate(tt.req)
			checkVerdict(t, effects, err, tt.effects, tt.wantErr)
		})
	}
}

func TestUnknownEntity(t *testing.T) {
	_, err := Validate(Request{Entity: "truck", From: "a", To: "b", Actor: admin})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("Validate(unknown entity) = %v, want ErrValidation", err)
	}
}

func checkVerdict(t *testing.T, effects Effects, err error, wantEffects Effects, wantErr error) {
	t.Helper()
	if wantErr != nil {
		if !errors.Is(err, wantErr) {
			t.Errorf("Validate() error = %v, want %v", err, wantErr)
		}
		return
	}
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if effects != wantEffects {
		t.Errorf("effects = %+v, want %+v", effects, wantEffects)
	}
}
