package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/store"
	"swms-backend/internal/websocket"
	"swms-backend/internal/workflow"
	"swms-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// GetBins lists every bin. Any authenticated user may read them.
func GetBins(bins *store.Bins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := bins.List()
		if err != nil {
			log.Printf("bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}

		responses := make([]models.BinResponse, len(all))
		for i, bin := range all {
			responses[i] = bin.ToBinResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// GetAssignedBins lists the bins assigned to the calling driver.
func GetAssignedBins(bins *store.Bins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		assigned, err := bins.ListByDriver(claims.UserID)
		if err != nil {
			log.Printf("bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch assigned bins")
			return
		}

		responses := make([]models.BinResponse, len(assigned))
		for i, bin := range assigned {
			responses[i] = bin.ToBinResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// CreateBin creates a bin. Admin only.
func CreateBin(bins *store.Bins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg, err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		bin := models.Bin{
			Name:           req.Name,
			Location:       req.Location,
			Capacity:       req.Capacity,
			AssignedDriver: req.AssignedDriver,
			CleaningPeriod: req.CleaningPeriod,
			Status:         models.BinPending,
		}
		if req.FillLevel != nil {
			bin.FillLevel = *req.FillLevel
		}

		if err := bins.Create(&bin); err != nil {
			log.Printf("bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create bin")
			return
		}

		utils.JSON(w, http.StatusCreated, bin.ToBinResponse())
	}
}

// UpdateBin is the admin full replace; the status may move anywhere
// within the bin status set and the workflow side effects still apply.
func UpdateBin(bins *store.Bins, hub *websocket.Hub, fcm *services.FCMService, fcmTokens *store.FCMTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		id := chi.URLParam(r, "id")
		var req models.UpdateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !models.ValidCapacity(req.Capacity) || !models.ValidCleaningPeriod(req.CleaningPeriod) {
			utils.Error(w, http.StatusBadRequest, "Invalid capacity or cleaning period")
			return
		}

		existing, err := bins.GetByID(id)
		if err != nil {
			respondStoreError(w, err, "Bin not found")
			return
		}

		assigned := ""
		if existing.AssignedDriver != nil {
			assigned = *existing.AssignedDriver
		}
		effects, err := workflow.Validate(workflow.Request{
			Entity:         workflow.BinEntity,
			From:           existing.Status,
			To:             req.Status,
			Actor:          claims,
			AssignedDriver: assigned,
		})
		if err != nil {
			respondWorkflowError(w, err)
			return
		}

		previousDriver := assigned
		existing.Name = req.Name
		existing.Location = req.Location
		existing.Capacity = req.Capacity
		existing.AssignedDriver = req.AssignedDriver
		existing.CleaningPeriod = req.CleaningPeriod
		existing.Status = req.Status
		if req.FillLevel != nil {
			existing.FillLevel = clampFill(*req.FillLevel)
		}
		if effects.SetLastCleaned {
			now := time.Now().Unix()
			existing.LastCleaned = &now
		}

		if err := bins.Replace(existing); err != nil {
			respondStoreError(w, err, "Bin not found")
			return
		}

		hub.BroadcastToRole(models.RoleAdmin, websocket.Event{
			Type: "bin_updated",
			Data: existing.ToBinResponse(),
		})
		if existing.AssignedDriver != nil && *existing.AssignedDriver != previousDriver {
			hub.BroadcastToUser(*existing.AssignedDriver, websocket.Event{
				Type: "bin_assigned",
				Data: existing.ToBinResponse(),
			})
			NotifyBinAssignment(fcm, fcmTokens, *existing.AssignedDriver, existing.Name)
		}

		utils.JSON(w, http.StatusOK, existing.ToBinResponse())
	}
}

// UpdateBinStatus is the driver transition route: an assigned driver
// completes their own pending bin, which stamps last_cleaned.
func UpdateBinStatus(bins *store.Bins, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		id := chi.URLParam(r, "id")
		var req models.UpdateBinStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Fresh read immediately before the write; the workflow engine
		// validates against current state.
		existing, err := bins.GetByID(id)
		if err != nil {
			respondStoreError(w, err, "Bin not found")
			return
		}

		assigned := ""
		if existing.AssignedDriver != nil {
			assigned = *existing.AssignedDriver
		}
		effects, err := workflow.Validate(workflow.Request{
			Entity:         workflow.BinEntity,
			From:           existing.Status,
			To:             req.Status,
			Actor:          claims,
			AssignedDriver: assigned,
		})
		if err != nil {
			respondWorkflowError(w, err)
			return
		}

		var lastCleaned *int64
		if effects.SetLastCleaned {
			now := time.Now().Unix()
			lastCleaned = &now
		}
		var fill *int
		if req.FillLevel != nil {
			clamped := clampFill(*req.FillLevel)
			fill = &clamped
		}

		updated, err := bins.SetStatus(id, req.Status, fill, lastCleaned)
		if err != nil {
			respondStoreError(w, err, "Bin not found")
			return
		}

		log.Printf("✅ Bin %s → %s by driver %s", id, req.Status, claims.UserID)
		hub.BroadcastToRole(models.RoleAdmin, websocket.Event{
			Type: "bin_status_changed",
			Data: updated.ToBinResponse(),
		})

		utils.JSON(w, http.StatusOK, updated.ToBinResponse())
	}
}

// DeleteBin removes a bin. Admin only.
func DeleteBin(bins *store.Bins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := bins.Delete(id); err != nil {
			respondStoreError(w, err, "Bin not found")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Bin deleted successfully"})
	}
}

// NotifyBinAssignment pushes an FCM notification to a driver who was
// just assigned a bin. Safe to call with a nil FCM service.
func NotifyBinAssignment(fcm *services.FCMService, fcmTokens *store.FCMTokens, driverID, binName string) {
	if fcm == nil {
		return
	}
	tokens, err := fcmTokens.ListByUser(driverID)
	if err != nil {
		log.Printf("fcm: %v", err)
		return
	}
	for _, token := range tokens {
		if err := fcm.SendBinAssignedNotification(token, binName); err != nil {
			log.Printf("fcm: %v", err)
		}
	}
}

func clampFill(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// respondStoreError maps store failures onto 404 vs 500.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, notFoundMsg)
		return
	}
	log.Printf("store: %v", err)
	utils.Error(w, http.StatusInternalServerError, "Database error")
}

// respondWorkflowError maps workflow verdicts onto their status codes
// without leaking internals.
func respondWorkflowError(w http.ResponseWriter, err error) {
	utils.Error(w, apperrors.Status(err), err.Error())
}
