package models

import (
	"strings"

	"swms-backend/internal/apperrors"
)

const (
	RoleCitizen = "citizen"
	RoleDriver  = "driver"
	RoleAdmin   = "admin"
)

const (
	DriverActive   = "active"
	DriverInactive = "inactive"
)

// User is a persisted account. DriverPin and DriverStatus are present
// iff Role is "driver"; Validate enforces that invariant since sqlx
// rows cannot express it structurally.
type User struct {
	ID           string  `json:"id" db:"id"`
	Email        string  `json:"email" db:"email"`
	Password     string  `json:"-" db:"password"` // bcrypt hash, never serialized
	FirstName    string  `json:"first_name" db:"first_name"`
	LastName     string  `json:"last_name" db:"last_name"`
	Role         string  `json:"role" db:"role"`
	DriverPin    *string `json:"driver_pin,omitempty" db:"driver_pin"`
	DriverStatus *string `json:"driver_status,omitempty" db:"driver_status"`
	Phone        string  `json:"phone" db:"phone"`
	Address      string  `json:"address" db:"address"`
	Photo        string  `json:"photo" db:"photo"`
	Area         string  `json:"area" db:"area"`
	CreatedAt    int64   `json:"created_at" db:"created_at"`
	UpdatedAt    int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	DriverPin    *string `json:"driver_pin,omitempty"`
	DriverStatus *string `json:"driver_status,omitempty"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Photo        string  `json:"photo"`
	Area         string  `json:"area,omitempty"`
	CreatedAt    int64   `json:"created_at"`
}

// ToUserResponse strips the password hash and hides driver-only fields
// for non-driver accounts.
func (u *User) ToUserResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		Photo:     u.Photo,
		Area:      u.Area,
		CreatedAt: u.CreatedAt,
	}
	if u.Role == RoleDriver {
		resp.DriverPin = u.DriverPin
		resp.DriverStatus = u.DriverStatus
	}
	return resp
}

func ValidRole(role string) bool {
	return role == RoleCitizen || role == RoleDriver || role == RoleAdmin
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	DriverPin string `json:"driverPin"`
}

// Validate checks registration input and returns a client-facing
// message on failure. The role defaults to citizen when omitted.
func (r *RegisterRequest) Validate() (string, error) {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" ||
		strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return "All required fields must be provided", apperrors.ErrValidation
	}
	if len(r.Password) < 8 {
		return "Password must be at least 8 characters", apperrors.ErrValidation
	}
	if r.Role == "" {
		r.Role = RoleCitizen
	}
	if !ValidRole(r.Role) {
		return "Role must be 'citizen', 'driver', or 'admin'", apperrors.ErrValidation
	}
	if r.Role == RoleDriver {
		if len(r.DriverPin) != 4 {
			return "Driver PIN must be exactly 4 digits", apperrors.ErrValidation
		}
		for _, c := range r.DriverPin {
			if c < '0' || c > '9' {
				return "Driver PIN must be exactly 4 digits", apperrors.ErrValidation
			}
		}
	} else if r.DriverPin != "" {
		return "Driver PIN is only valid for driver accounts", apperrors.ErrValidation
	}
	return "", nil
}

// UpdateProfileRequest is the body of PUT /api/profile. Email, role and
// password are never updatable through the profile surface.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Photo     *string `json:"photo,omitempty"`
	Area      *string `json:"area,omitempty"`
}
