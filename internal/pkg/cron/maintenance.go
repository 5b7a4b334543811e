package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
)

type MaintenanceJobs struct {
	refreshTokenRepo auth.RefreshTokenRepository
	retention        time.Duration
}

// NewMaintenanceJobs keeps expired refresh tokens for retention before purging them.
func NewMaintenanceJobs(refreshTokenRepo auth.RefreshTokenRepository, retention time.Duration) *MaintenanceJobs {
	return &MaintenanceJobs{refreshTokenRepo: refreshTokenRepo, retention: retention}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_refresh_tokens", 24*time.Hour, j.PurgeExpiredRefreshTokens)
}

func (j *MaintenanceJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx, time.Now().Add(-j.retention))
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	slog.Info("Cron: purged expired refresh tokens", "count", deleted)
	return nil
}
