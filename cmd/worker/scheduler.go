package main

import (
	"log"

	"greencart-backend/internal/config"
	"greencart-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler for the worker binary
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates the scheduler and registers the cron jobs
func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
