package database

import (
	"log"
	"os"
	"time"

	"swms-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers creates the default admin account when the users table is
// empty. The password comes from SEED_ADMIN_PASSWORD, falling back to
// a value that must be rotated on first login.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-now"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	_, err = db.Exec(`
		INSERT INTO users (id, email, password, first_name, last_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New().String(), "admin@swms.local", string(hashed), "System", "Admin",
		models.RoleAdmin, now, now)
	if err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin user (admin@swms.local)")
	return nil
}

// SeedBins inserts a starter set of bins when the table is empty.
func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	bins := []struct {
		name     string
		location string
		capacity string
		period   string
		fill     int
	}{
		{"Market Square North", "12 Market Square", models.CapacityHigh, models.CleaningDaily, 45},
		{"Market Square South", "48 Market Square", models.CapacityHigh, models.CleaningDaily, 67},
		{"Riverside Park Gate", "1 Riverside Walk", models.CapacityMedium, models.CleaningWeekly, 23},
		{"Central Station East", "200 Station Rd", models.CapacityHigh, models.CleaningDaily, 89},
		{"Elm Street Corner", "77 Elm St", models.CapacityLow, models.CleaningWeekly, 12},
		{"Harbour View", "5 Quayside", models.CapacityMedium, models.CleaningWeekly, 78},
		{"Old Town Hall", "1 Civic Plaza", models.CapacityMedium, models.CleaningMonthly, 56},
		{"Greenfield Estate", "310 Greenfield Ave", models.CapacityLow, models.CleaningMonthly, 34},
	}

	now := time.Now().Unix()
	for _, b := range bins {
		_, err := db.Exec(`
			INSERT INTO bins (id, name, location, capacity, cleaning_period,
			                  status, fill_level, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New().String(), b.name, b.location, b.capacity, b.period,
			models.BinPending, b.fill, now, now)
		if err != nil {
			return err
		}
	}

	log.Printf("🌱 Seeded %d bins", len(bins))
	return nil
}
