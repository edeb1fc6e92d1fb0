package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

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

// GetSchedules lists every pickup request. Admin only.
func GetSchedules(schedules *store.Schedules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := schedules.List()
		if err != nil {
			log.Printf("schedules: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch schedules")
			return
		}

		responses := make([]models.ScheduleResponse, len(all))
		for i, s := range all {
			responses[i] = s.ToScheduleResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// GetMySchedules lists the calling user's own pickup requests.
func GetMySchedules(schedules *store.Schedules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		mine, err := schedules.ListByUser(claims.UserID)
		if err != nil {
			log.Printf("schedules: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch schedules")
			return
		}

		responses := make([]models.ScheduleResponse, len(mine))
		for i, s := range mine {
			responses[i] = s.ToScheduleResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// GetAssignedSchedules lists the schedules assigned to the calling
// driver.
func GetAssignedSchedules(schedules *store.Schedules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		assigned, err := schedules.ListByDriver(claims.UserID)
		if err != nil {
			log.Printf("schedules: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch assigned schedules")
			return
		}

		responses := make([]models.ScheduleResponse, len(assigned))
		for i, s := range assigned {
			responses[i] = s.ToScheduleResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// CreateSchedule files a custom pickup request for the calling user.
// New schedules always start pending.
func CreateSchedule(schedules *store.Schedules, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		var req models.CreateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if msg, err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		schedule := models.Schedule{
			UserID:    claims.UserID,
			Location:  req.Address,
			Date:      req.Date,
			Time:      req.Time,
			WasteType: req.WasteType,
			Reason:    req.Reason,
			Status:    models.SchedulePending,
		}

		if err := schedules.Create(&schedule); err != nil {
			log.Printf("schedules: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create schedule")
			return
		}

		hub.BroadcastToRole(models.RoleAdmin, websocket.Event{
			Type: "schedule_created",
			Data: schedule.ToScheduleResponse(),
		})

		utils.JSON(w, http.StatusCreated, map[string]interface{}{
			"message":  "Schedule request created successfully",
			"schedule": schedule.ToScheduleResponse(),
		})
	}
}

// UpdateSchedule transitions a pickup request. Admins approve/reject
// pending requests (optionally assigning a driver at approval time);
// the assigned driver or an admin completes approved ones.
func UpdateSchedule(schedules *store.Schedules, users *store.Users, hub *websocket.Hub, fcm *services.FCMService, fcmTokens *store.FCMTokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		id := chi.URLParam(r, "id")
		var req models.UpdateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		assigningDriver := req.AssignedDriver != nil && strings.TrimSpace(*req.AssignedDriver) != ""
		if assigningDriver {
			driver, err := users.GetByID(*req.AssignedDriver)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					utils.Error(w, http.StatusBadRequest, "Assigned driver does not exist")
					return
				}
				respondStoreError(w, err, "")
				return
			}
			if driver.Role != models.RoleDriver {
				utils.Error(w, http.StatusBadRequest, "Assigned user is not a driver")
				return
			}
		} else {
			req.AssignedDriver = nil
		}

		existing, err := schedules.GetByID(id)
		if err != nil {
			respondStoreError(w, err, "Schedule not found")
			return
		}

		currentDriver := ""
		if existing.AssignedDriver != nil {
			currentDriver = *existing.AssignedDriver
		}
		if _, err := workflow.Validate(workflow.Request{
			Entity:          workflow.ScheduleEntity,
			From:            existing.Status,
			To:              req.Status,
			Actor:           claims,
			AssignedDriver:  currentDriver,
			AssigningDriver: assigningDriver,
		}); err != nil {
			respondWorkflowError(w, err)
			return
		}

		updated, err := schedules.SetStatus(id, req.Status, req.AssignedDriver)
		if err != nil {
			respondStoreError(w, err, "Schedule not found")
			return
		}

		log.Printf("✅ Schedule %s → %s by %s (%s)", id, req.Status, claims.UserID, claims.Role)

		hub.BroadcastToUser(updated.UserID, websocket.Event{
			Type: "schedule_updated",
			Data: updated.ToScheduleResponse(),
		})
		if assigningDriver {
			hub.BroadcastToUser(*req.AssignedDriver, websocket.Event{
				Type: "schedule_assigned",
				Data: updated.ToScheduleResponse(),
			})
			notifyScheduleAssignment(fcm, fcmTokens, *req.AssignedDriver, updated)
		}

		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Schedule updated successfully",
			"schedule": updated.ToScheduleResponse(),
		})
	}
}

func notifyScheduleAssignment(fcm *services.FCMService, fcmTokens *store.FCMTokens, driverID string, schedule *models.Schedule) {
	if fcm == nil {
		return
	}
	tokens, err := fcmTokens.ListByUser(driverID)
	if err != nil {
		log.Printf("fcm: %v", err)
		return
	}
	for _, token := range tokens {
		if err := fcm.SendScheduleAssignedNotification(token, schedule.ID, schedule.Date, schedule.Location); err != nil {
			log.Printf("fcm: %v", err)
		}
	}
}
