package app

import (
	"context"
	"time"

	"github.com/courtdata/nba-analytics/internal/platform/logging"
	"github.com/courtdata/nba-analytics/internal/usecase"
)

const dailySyncTimeout = 30 * time.Minute

// Scheduler triggers the daily ingestion at a fixed UTC hour. It is a plain
// in-process ticker loop; running more than one replica means running the
// sync more than once, which the insert-only stat store tolerates.
type Scheduler struct {
	syncService *usecase.SyncService
	season      int
	hourUTC     int
	logger      *logging.Logger
	now         func() time.Time
}

func NewScheduler(syncService *usecase.SyncService, season, hourUTC int, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		syncService: syncService,
		season:      season,
		hourUTC:     hourUTC,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks until ctx is cancelled, firing one daily sync per scheduled slot.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := nextDailyRun(s.now(), s.hourUTC)
		s.logger.InfoContext(ctx, "daily sync scheduled",
			"season", s.season,
			"next_run", next.Format(time.RFC3339),
		)

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.InfoContext(ctx, "scheduler stopped")
			return
		case <-timer.C:
		}

		s.runOnce(ctx)
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, dailySyncTimeout)
	defer cancel()

	run, err := s.syncService.SyncDaily(runCtx, s.season)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled daily sync failed", "season", s.season, "error", err)
		return
	}

	s.logger.InfoContext(ctx, "scheduled daily sync finished",
		"season", run.Season,
		"status", string(run.Status),
		"games_synced", run.GamesSynced,
		"stats_synced", run.StatsSynced,
		"error_count", run.ErrorCount,
	)
}

// nextDailyRun returns the next occurrence of hourUTC strictly after now.
func nextDailyRun(now time.Time, hourUTC int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
