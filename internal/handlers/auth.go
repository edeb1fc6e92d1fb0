package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/auth"
	"swms-backend/internal/models"
	"swms-backend/internal/store"
	"swms-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// Register creates a new account. Public route.
func Register(users *store.Users) http.HandlerFunc {
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
			log.Printf("register: failed to hash password: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to process registration")
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
				// The original API reports duplicate registration as a
				// validation failure, not 409.
				utils.Error(w, http.StatusBadRequest, "User already exists")
				return
			}
			log.Printf("register: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ Registered %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
	}
}

// Login checks credentials and issues a session token.
func Login(users *store.Users, tokens *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.GetByEmail(req.Email)
		if err != nil {
			// Same message for unknown email and wrong password.
			utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("login: invalid password for %s", req.Email)
			utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			log.Printf("login: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusOK, LoginResponse{
			Token: token,
			User:  user.ToUserResponse(),
		})
	}
}
