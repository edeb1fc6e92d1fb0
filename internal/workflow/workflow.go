// Package workflow holds the status-transition rules shared by bins,
// complaints and schedules. The engine is pure: handlers read the
// entity fresh, ask Validate for a verdict, then apply the returned
// effects together with the status write.
package workflow

import (
	"fmt"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/auth"
	"swms-backend/internal/models"
)

type EntityType string

const (
	BinEntity       EntityType = "bin"
	ComplaintEntity EntityType = "complaint"
	ScheduleEntity  EntityType = "schedule"
)

// Request describes an attempted transition on an already-loaded entity.
type Request struct {
	Entity EntityType
	From   string
	To     string
	Actor  auth.Claims

	// AssignedDriver is the entity's current assigned driver id, empty
	// when unassigned. Ownership checks compare it to the actor.
	AssignedDriver string

	// AssigningDriver is set when the request wants to attach a driver
	// together with the transition (schedules only).
	AssigningDriver bool
}

// Effects are the timestamp side effects the caller must persist
// atomically with the status change.
type Effects struct {
	SetLastCleaned  bool // bins: transition to completed
	SetResolvedAt   bool // complaints: transition to completed
	ClearResolvedAt bool // complaints: any other target status
	TouchUpdatedAt  bool // schedules: every transition
}

// Validate decides whether the actor may apply the transition and
// which side effects it triggers. Checks run in order: target status
// membership, role permission, ownership. Entity existence is the
// caller's concern (a fresh read precedes every call).
func Validate(req Request) (Effects, error) {
	switch req.Entity {
	case BinEntity:
		return validateBin(req)
	case ComplaintEntity:
		return validateComplaint(req)
	case ScheduleEntity:
		return validateSchedule(req)
	default:
		return Effects{}, fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, req.Entity)
	}
}

func validateBin(req Request) (Effects, error) {
	if !models.ValidBinStatus(req.To) {
		return Effects{}, fmt.Errorf("%w: %q is not a bin status", apperrors.ErrInvalidStatus, req.To)
	}

	switch req.Actor.Role {
	case models.RoleAdmin:
		// Admin full replace may move a bin between any statuses.
	case models.RoleDriver:
		// Completing a pending bin is the only transition the driver
		// role is permitted to apply, so anything else is a role
		// violation rather than a malformed request.
		if req.From != models.BinPending || req.To != models.BinCompleted {
			return Effects{}, fmt.Errorf("%w: drivers may only complete pending bins", apperrors.ErrForbidden)
		}
		if req.AssignedDriver == "" || req.AssignedDriver != req.Actor.UserID {
			return Effects{}, fmt.Errorf("%w: bin is not assigned to this driver", apperrors.ErrForbidden)
		}
	default:
		return Effects{}, fmt.Errorf("%w: role %q may not update bins", apperrors.ErrForbidden, req.Actor.Role)
	}

	return Effects{SetLastCleaned: req.To == models.BinCompleted}, nil
}

func validateComplaint(req Request) (Effects, error) {
	if !models.ValidComplaintStatus(req.To) {
		return Effects{}, fmt.Errorf("%w: %q is not a complaint status", apperrors.ErrInvalidStatus, req.To)
	}
	if req.Actor.Role != models.RoleAdmin {
		return Effects{}, fmt.Errorf("%w: only admins may update complaints", apperrors.ErrForbidden)
	}

	if req.To == models.ComplaintCompleted {
		return Effects{SetResolvedAt: true}, nil
	}
	return Effects{ClearResolvedAt: true}, nil
}

func validateSchedule(req Request) (Effects, error) {
	if !models.ValidScheduleStatus(req.To) {
		return Effects{}, fmt.Errorf("%w: %q is not a schedule status", apperrors.ErrInvalidStatus, req.To)
	}

	effects := Effects{TouchUpdatedAt: true}

	switch req.To {
	case models.ScheduleApproved, models.ScheduleRejected:
		if req.Actor.Role != models.RoleAdmin {
			return Effects{}, fmt.Errorf("%w: only admins may approve or reject schedules", apperrors.ErrForbidden)
		}
		if req.From != models.SchedulePending {
			return Effects{}, fmt.Errorf("%w: only pending schedules may be %s", apperrors.ErrInvalidTransition, req.To)
		}
	case models.ScheduleCompleted:
		if req.From != models.ScheduleApproved {
			return Effects{}, fmt.Errorf("%w: schedule must be approved before completion", apperrors.ErrInvalidTransition)
		}
		switch req.Actor.Role {
		case models.RoleAdmin:
		case models.RoleDriver:
			if req.AssignedDriver == "" || req.AssignedDriver != req.Actor.UserID {
				return Effects{}, fmt.Errorf("%w: schedule is not assigned to this driver", apperrors.ErrForbidden)
			}
		default:
			return Effects{}, fmt.Errorf("%w: role %q may not complete schedules", apperrors.ErrForbidden, req.Actor.Role)
		}
	default:
		// Back to pending is not part of the schedule lifecycle.
		return Effects{}, fmt.Errorf("%w: schedules cannot return to %s", apperrors.ErrInvalidTransition, req.To)
	}

	// A driver is attached only while approving; everywhere else the
	// assignment field is immutable through this path.
	if req.AssigningDriver && req.To != models.ScheduleApproved {
		return Effects{}, fmt.Errorf("%w: a driver may only be assigned while approving", apperrors.ErrInvalidTransition)
	}

	return effects, nil
}
