package store

import (
	"os"
	"testing"

	"swms-backend/internal/database"
	"swms-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// testDB connects to the database named by DATABASE_URL and ensures the
// schema exists. Tests that need it are skipped when the variable is
// unset, so the suite stays runnable without Postgres.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping database round-trip tests")
	}
	db, err := database.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBinRoundTrip(t *testing.T) {
	db := testDB(t)
	bins := NewBins(db)

	bin := models.Bin{
		Name:           "Round Trip Bin",
		Location:       "1 Depot Lane",
		Capacity:       models.CapacityMedium,
		CleaningPeriod: models.CleaningWeekly,
		FillLevel:      40,
	}
	if err := bins.Create(&bin); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { bins.Delete(bin.ID) })

	if bin.ID == "" || bin.CreatedAt == 0 {
		t.Fatal("create did not assign id and created_at")
	}

	got, err := bins.GetByID(bin.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Name != bin.Name || got.Location != bin.Location ||
		got.Capacity != bin.Capacity || got.CleaningPeriod != bin.CleaningPeriod ||
		got.FillLevel != bin.FillLevel {
		t.Errorf("fetched bin = %+v, want fields of %+v", got, bin)
	}
	if got.Status != models.BinPending {
		t.Errorf("status = %q, want pending default", got.Status)
	}
	if got.AssignedDriver != nil || got.LastCleaned != nil {
		t.Errorf("fresh bin has assigned_driver=%v last_cleaned=%v, want nil", got.AssignedDriver, got.LastCleaned)
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	db := testDB(t)
	users := NewUsers(db)
	schedules := NewSchedules(db)

	owner := models.User{
		Email:     "roundtrip-schedule@test.local",
		Password:  "not-a-real-hash",
		FirstName: "Round",
		LastName:  "Trip",
		Role:      models.RoleCitizen,
	}
	if err := users.Create(&owner); err != nil {
		t.Fatalf("create user: %v", err)
	}
	// Cascades to the schedule.
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", owner.ID) })

	schedule := models.Schedule{
		UserID:    owner.ID,
		Location:  "12 Mabini St",
		Date:      "2026-09-01",
		Time:      "09:30",
		WasteType: "bulky",
		Reason:    "old furniture",
	}
	if err := schedules.Create(&schedule); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	got, err := schedules.GetByID(schedule.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.UserID != owner.ID || got.Location != schedule.Location ||
		got.Date != schedule.Date || got.Time != schedule.Time ||
		got.WasteType != schedule.WasteType || got.Reason != schedule.Reason {
		t.Errorf("fetched schedule = %+v, want fields of %+v", got, schedule)
	}
	if got.Status != models.SchedulePending {
		t.Errorf("status = %q, want pending default", got.Status)
	}
	if got.AssignedDriver != nil {
		t.Errorf("fresh schedule has assigned_driver=%v, want nil", got.AssignedDriver)
	}
}
