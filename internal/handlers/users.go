package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/models"
	"swms-backend/internal/store"
	"swms-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// GetUsers lists accounts, optionally filtered by ?role= and ?status=
// (driver status). Admin only.
func GetUsers(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		status := r.URL.Query().Get("status")

		if role != "" && !models.ValidRole(role) {
			utils.Error(w, http.StatusBadRequest, "Invalid role filter")
			return
		}
		if status != "" && status != models.DriverActive && status != models.DriverInactive {
			utils.Error(w, http.StatusBadRequest, "Invalid status filter")
			return
		}

		all, err := users.List(role, status)
		if err != nil {
			log.Printf("users: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		responses := make([]models.UserResponse, len(all))
		for i, u := range all {
			responses[i] = u.ToUserResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// CreateUser lets an admin provision an account directly, bypassing
// public registration. Unlike register, a duplicate email is a 409.
func CreateUser(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg, err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("users: failed to hash password: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		user := models.User{
			Email:     req.Email,
			Password:  string(hashed),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		}
		if req.Role == models.RoleDriver {
			pin := req.DriverPin
			status := models.DriverActive
			user.DriverPin = &pin
			user.DriverStatus = &status
		}

		if err := users.Create(&user); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				utils.Error(w, http.StatusConflict, "User with this email already exists")
				return
			}
			log.Printf("users: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ User created by admin: %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusCreated, map[string]interface{}{
			"message": "User created successfully",
			"user":    user.ToUserResponse(),
		})
	}
}
