package scheduler

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler purges anonymous carts nobody touched within the
// retention window. Account carts are never purged.
type CartCleanupScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	schedule    string
	retention   time.Duration
}

func NewCartCleanupScheduler(cartService service.CartService, schedule string, retention time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:        cron.New(),
		cartService: cartService,
		schedule:    schedule,
		retention:   retention,
	}
}

// Start registers the job and starts the cron runner.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce()
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started", map[string]interface{}{
		"schedule":  s.schedule,
		"retention": s.retention.String(),
	})
	return nil
}

// RunOnce performs a single purge and returns the number of deleted lines.
func (s *CartCleanupScheduler) RunOnce() int64 {
	logger.Debug("Starting scheduled cart cleanup")

	deleted, err := s.cartService.PurgeAbandoned(s.retention)
	if err != nil {
		logger.Error("Failed to purge abandoned carts from scheduler", err)
		return 0
	}
	return deleted
}

// Stop waits for a running job to finish.
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Cart cleanup scheduler stopped")
}
