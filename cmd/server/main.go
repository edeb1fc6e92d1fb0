package main

import (
	"log"
	"net/http"

	"swms-backend/internal/auth"
	"swms-backend/internal/config"
	"swms-backend/internal/database"
	"swms-backend/internal/handlers"
	"swms-backend/internal/middleware"
	"swms-backend/internal/services"
	"swms-backend/internal/store"
	"swms-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SWMS BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ FATAL ERROR: %v", err)
	}
	if cfg.BypassEnabled() {
		log.Println("⚠️  Development admin bypass token is ENABLED — never run this way in production")
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ FATAL ERROR: Database connection failed: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Database migrations failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: User seeding failed: %v", err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Bin seeding failed: %v", err)
	}

	// Stores
	users := store.NewUsers(db)
	bins := store.NewBins(db)
	complaints := store.NewComplaints(db)
	schedules := store.NewSchedules(db)
	fcmTokens := store.NewFCMTokens(db)

	// Token service
	tokens := auth.NewService(cfg.JWTSecret, cfg.DevBypassToken)

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	switch {
	case cfg.FCMCredentialsBase64 != "":
		fcmService, err = services.NewFCMServiceFromBase64(cfg.FCMCredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	case cfg.FCMCredentialsFile != "":
		fcmService, err = services.NewFCMService(cfg.FCMCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	default:
		log.Println("⚠️  No Firebase credentials configured (push notifications disabled)")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Cleaning cadence scheduler
	cadence := services.NewCadenceService(bins)
	if err := cadence.Start(); err != nil {
		log.Fatalf("❌ FATAL ERROR: Cadence scheduler failed to start: %v", err)
	}
	defer cadence.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, tokens))

	r.Route("/api", func(r chi.Router) {
		// Authentication routes (no auth required)
		r.Post("/auth/register", handlers.Register(users))
		r.Post("/auth/login", handlers.Login(users, tokens))

		// Authenticated routes (any role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Get("/profile", handlers.GetProfile(users))
			r.Put("/profile", handlers.UpdateProfile(users))

			r.Get("/bins", handlers.GetBins(bins))

			r.Get("/complaints", handlers.GetComplaints(complaints))
			r.Get("/complaints/my", handlers.GetMyComplaints(complaints))
			r.Post("/complaints", handlers.CreateComplaint(complaints, bins, wsHub))

			r.Get("/schedules/my", handlers.GetMySchedules(schedules))
			r.Post("/schedules", handlers.CreateSchedule(schedules, wsHub))

			r.Post("/fcm-token", handlers.RegisterFCMToken(fcmTokens))
		})

		// Driver routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))
			r.Use(middleware.RequireRole("driver"))

			r.Get("/bins/assigned", handlers.GetAssignedBins(bins))
			r.Put("/bins/{id}/status", handlers.UpdateBinStatus(bins, wsHub))
			r.Get("/schedules/assigned", handlers.GetAssignedSchedules(schedules))
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))
			r.Use(middleware.RequireRole("admin"))

			r.Post("/bins", handlers.CreateBin(bins))
			r.Put("/bins/{id}", handlers.UpdateBin(bins, wsHub, fcmService, fcmTokens))
			r.Delete("/bins/{id}", handlers.DeleteBin(bins))

			r.Put("/complaints/{id}", handlers.UpdateComplaint(complaints, wsHub, fcmService, fcmTokens))

			r.Get("/schedules", handlers.GetSchedules(schedules))

			r.Get("/users", handlers.GetUsers(users))
			r.Post("/users", handlers.CreateUser(users))
		})

		// Admin or assigned driver
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))
			r.Use(middleware.RequireRole("admin", "driver"))

			r.Put("/schedules/{id}", handlers.UpdateSchedule(schedules, users, wsHub, fcmService, fcmTokens))
		})
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ FATAL ERROR: Server failed to start: %v", err)
	}
}
