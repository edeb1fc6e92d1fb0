package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"swms-backend/internal/middleware"
	"swms-backend/internal/store"
	"swms-backend/pkg/utils"
)

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"` // "ios" or "android"
}

// RegisterFCMToken stores a device push token for the calling user so
// assignment and resolution notifications can reach them.
func RegisterFCMToken(fcmTokens *store.FCMTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Token) == "" {
			utils.Error(w, http.StatusBadRequest, "Token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.Error(w, http.StatusBadRequest, "Device type must be 'ios' or 'android'")
			return
		}

		if err := fcmTokens.Register(claims.UserID, req.Token, req.DeviceType); err != nil {
			log.Printf("fcm: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]string{"message": "Token registered"})
	}
}
