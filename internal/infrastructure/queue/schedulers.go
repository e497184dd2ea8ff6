package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"greencart-backend/internal/shared"
	"greencart-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerScanPendingOrdersJob(); err != nil {
		return err
	}
	if err := s.registerDeactivateExpiredPromotionsJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// JOB 1: Scan Pending Orders (Daily at 9 AM UTC)
// ================================================
// Morning run so reminder emails land during the day.
func (s *Scheduler) registerScanPendingOrdersJob() error {
	task := asynq.NewTask(shared.TypeScanPendingOrders, nil)

	_, err := s.scheduler.Register(
		"0 9 * * *",
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ScanPendingOrders job", err)
		return err
	}

	logger.Info("✓ Registered ScanPendingOrders: daily at 9 AM UTC", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Deactivate Expired Promotions (Daily at 1 AM UTC)
// ================================================
// Low-traffic slot; an expired promotion already fails validity checks
// at apply time, this just keeps listings tidy.
func (s *Scheduler) registerDeactivateExpiredPromotionsJob() error {
	task := asynq.NewTask(shared.TypeDeactivateExpiredPromo, nil)

	_, err := s.scheduler.Register(
		"0 1 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register DeactivateExpiredPromotions job", err)
		return err
	}

	logger.Info("✓ Registered DeactivateExpiredPromotions: daily at 1 AM UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
