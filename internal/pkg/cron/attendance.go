package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
)

// AttendanceJobs closes finished office days.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	policy            attendance.Policy
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, policy attendance.Policy) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		policy:            policy,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_previous_day", 1*time.Hour, j.ClosePreviousDay)
}

// ClosePreviousDay fills in absent/on_leave rows for the office-local day
// before today. Re-running it is harmless because existing rows are skipped.
func (j *AttendanceJobs) ClosePreviousDay(ctx context.Context) error {
	yesterday := j.policy.LocalDate(j.now()).AddDate(0, 0, -1)

	created, err := j.attendanceService.CloseDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", yesterday.Format("2006-01-02"), err)
	}
	if created > 0 {
		slog.Info("Cron: closed attendance day", "date", yesterday.Format("2006-01-02"), "records", created)
	}
	return nil
}
