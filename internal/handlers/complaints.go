package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/store"
	"swms-backend/internal/websocket"
	"swms-backend/internal/workflow"
	"swms-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// GetComplaints lists every complaint. Any authenticated user may read
// them (the dashboard shows open complaints to all roles).
func GetComplaints(complaints *store.Complaints) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := complaints.List()
		if err != nil {
			log.Printf("complaints: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch complaints")
			return
		}

		responses := make([]models.ComplaintResponse, len(all))
		for i, c := range all {
			responses[i] = c.ToComplaintResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// GetMyComplaints lists the calling user's complaints.
func GetMyComplaints(complaints *store.Complaints) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		mine, err := complaints.ListByUser(claims.UserID)
		if err != nil {
			log.Printf("complaints: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch complaints")
			return
		}

		responses := make([]models.ComplaintResponse, len(mine))
		for i, c := range mine {
			responses[i] = c.ToComplaintResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// CreateComplaint files a complaint about an existing bin, or suggests
// a new one. The reporter is always the authenticated caller.
func CreateComplaint(complaints *store.Complaints, bins *store.Bins, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		var req models.CreateComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg, err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		// A referenced bin must exist; a suggested bin has none.
		if req.BinID != nil && strings.TrimSpace(*req.BinID) != "" {
			if _, err := bins.GetByID(*req.BinID); err != nil {
				respondStoreError(w, err, "Referenced bin not found")
				return
			}
		} else {
			req.BinID = nil
		}

		complaint := models.Complaint{
			UserID:       claims.UserID,
			BinID:        req.BinID,
			SuggestedBin: req.SuggestedBin,
			Description:  req.Description,
			Status:       models.ComplaintPending,
		}

		if err := complaints.Create(&complaint); err != nil {
			log.Printf("complaints: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create complaint")
			return
		}

		hub.BroadcastToRole(models.RoleAdmin, websocket.Event{
			Type: "complaint_created",
			Data: complaint.ToComplaintResponse(),
		})

		utils.JSON(w, http.StatusCreated, complaint.ToComplaintResponse())
	}
}

// UpdateComplaint transitions a complaint's status. Admin only;
// resolved_at is stamped on completion and cleared on reopen.
func UpdateComplaint(complaints *store.Complaints, hub *websocket.Hub, fcm *services.FCMService, fcmTokens *store.FCMTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		id := chi.URLParam(r, "id")
		var req models.UpdateComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		existing, err := complaints.GetByID(id)
		if err != nil {
			respondStoreError(w, err, "Complaint not found")
			return
		}

		effects, err := workflow.Validate(workflow.Request{
			Entity: workflow.ComplaintEntity,
			From:   existing.Status,
			To:     req.Status,
			Actor:  claims,
		})
		if err != nil {
			respondWorkflowError(w, err)
			return
		}

		var resolvedAt *int64
		if effects.SetResolvedAt {
			now := time.Now().Unix()
			resolvedAt = &now
		}
		// effects.ClearResolvedAt leaves resolvedAt nil, which the
		// store writes through.

		updated, err := complaints.SetStatus(id, req.Status, resolvedAt)
		if err != nil {
			respondStoreError(w, err, "Complaint not found")
			return
		}

		hub.BroadcastToUser(updated.UserID, websocket.Event{
			Type: "complaint_updated",
			Data: updated.ToComplaintResponse(),
		})
		if updated.Status == models.ComplaintCompleted && fcm != nil {
			if tokens, err := fcmTokens.ListByUser(updated.UserID); err == nil {
				for _, token := range tokens {
					if err := fcm.SendComplaintResolvedNotification(token, updated.ID); err != nil {
						log.Printf("fcm: %v", err)
					}
				}
			}
		}

		utils.JSON(w, http.StatusOK, updated.ToComplaintResponse())
	}
}
