package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/internal/store"
	"swms-backend/pkg/utils"
)

// GetProfile returns the authenticated user's own record.
func GetProfile(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "User not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]models.UserResponse{"user": user.ToUserResponse()})
	}
}

// UpdateProfile applies the provided profile fields. Email, role and
// password are not reachable through this route.
func UpdateProfile(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		var req models.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.UpdateProfile(claims.UserID, &req)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "User not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]models.UserResponse{"user": user.ToUserResponse()})
	}
}
