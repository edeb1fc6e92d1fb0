package services

import (
	"log"
	"time"

	"swms-backend/internal/store"

	"github.com/robfig/cron/v3"
)

// CadenceService reopens completed bins whose cleaning period has
// elapsed (daily, weekly, monthly) so they return to the drivers'
// pending worklists. Runs hourly; the store query is idempotent.
type CadenceService struct {
	bins *store.Bins
	cron *cron.Cron
}

func NewCadenceService(bins *store.Bins) *CadenceService {
	return &CadenceService{
		bins: bins,
		cron: cron.New(),
	}
}

func (s *CadenceService) Start() error {
	_, err := s.cron.AddFunc("@hourly", s.reopenOverdueBins)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Println("✅ Cleaning cadence scheduler started (hourly)")

	// Catch up immediately on boot rather than waiting for the hour.
	go s.reopenOverdueBins()
	return nil
}

func (s *CadenceService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cleaning cadence scheduler stopped")
}

func (s *CadenceService) reopenOverdueBins() {
	reopened, err := s.bins.ReopenOverdue(time.Now())
	if err != nil {
		log.Printf("cadence: %v", err)
		return
	}
	if reopened > 0 {
		log.Printf("🔄 Cadence: reopened %d overdue bins", reopened)
	}
}
