package core

// scheduler.go runs report retention in the background. The job runs once at
// startup and then on every tick until the context is cancelled. A failed run
// is logged and retried on the next tick; it never stops the server.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls the retention job.
type RetentionConfig struct {
	MaxAge        time.Duration // reports older than this are purged
	CheckInterval time.Duration
}

// StartRetentionScheduler purges expired reports until ctx is cancelled. It
// returns immediately when MaxAge is not positive.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		slog.Info("report retention disabled")
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}

	slog.Info("retention scheduler started",
		"max_age", cfg.MaxAge.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg)
		}
	}
}

func (s *Service) runRetentionJob(ctx context.Context, cfg RetentionConfig) {
	start := time.Now()

	purged, err := s.PurgeExpired(ctx, cfg.MaxAge)
	if err != nil {
		slog.Error("report purge failed", "error", err)
		return
	}

	slog.Info("retention job completed",
		"reports_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
