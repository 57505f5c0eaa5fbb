package parserimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleHistoryCleanup sets up a daily job that trims old rows from the
// extractions table.
func (p *ParserImpl) ScheduleHistoryCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	// At 3:00 AM every day
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				p.Logger.Info("Context cancelled, stopping history cleanup job")
				return
			}

			p.Logger.Info("Starting scheduled history cleanup job")

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			retention := time.Duration(p.Config.History.RetentionDays) * 24 * time.Hour

			rowsDeleted, err := p.ExtractionRepo.CleanupOldRecords(cleanupCtx, retention)
			if err != nil {
				p.Logger.Error("Failed to clean up old extraction records", "error", err)
				return
			}

			p.Logger.Info("History cleanup completed successfully", "rows_deleted", rowsDeleted)
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to schedule history cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping history cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
