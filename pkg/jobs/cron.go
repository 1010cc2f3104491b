package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/thecloudsteward/proposals/pkg/metrics"
	"github.com/thecloudsteward/proposals/pkg/pages"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron    *cron.Cron
	store   *pages.Store
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(store *pages.Store, m *metrics.Metrics, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:    cron.New(),
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	// Daily at 3 AM: purge proposal pages past their expiration
	_, err := cm.cron.AddFunc("0 3 * * *", func() {
		cm.logger.Println("🕐 Running expired page purge job...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		purged, err := cm.store.PurgeExpired(ctx)
		if err != nil {
			cm.logger.Printf("❌ Failed to purge expired pages: %v", err)
			return
		}

		cm.metrics.RecordPagesPurged(purged)
		cm.logger.Printf("✅ Purged %d expired pages", purged)
	})

	return err
}

// Start begins running scheduled jobs
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop halts all scheduled jobs
func (cm *CronManager) Stop() {
	cm.cron.Stop()
}
