package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Bool
	s.AddJob("boom", time.Hour, func(ctx context.Context) error { panic("bad") })
	s.AddJob("fails", time.Hour, func(ctx context.Context) error { return errors.New("nope") })
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 cron job(s) failed")
	assert.True(t, ran.Load())
}

type closeDayRecorder struct {
	attendance.AttendanceService
	dates []time.Time
}

func (r *closeDayRecorder) CloseDay(ctx context.Context, date time.Time) (int64, error) {
	r.dates = append(r.dates, date)
	return 3, nil
}

func TestAttendanceJobs_ClosePreviousDayUsesOfficeDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	policy, err := attendance.NewPolicy(loc, "09:00", 15)
	require.NoError(t, err)

	rec := &closeDayRecorder{}
	jobs := NewAttendanceJobs(rec, policy)
	// 20:00 UTC on the 9th is 01:30 on the 10th in the office.
	jobs.now = func() time.Time { return time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.ClosePreviousDay(context.Background()))
	require.Len(t, rec.dates, 1)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), rec.dates[0])
}

type purgeRecorder struct {
	auth.RefreshTokenRepository
	before time.Time
	err    error
}

func (r *purgeRecorder) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	r.before = before
	return 2, r.err
}

func TestMaintenanceJobs_PurgeExpiredRefreshTokens(t *testing.T) {
	rec := &purgeRecorder{}
	jobs := NewMaintenanceJobs(rec, 24*time.Hour)

	require.NoError(t, jobs.PurgeExpiredRefreshTokens(context.Background()))
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), rec.before, time.Minute)

	rec.err = errors.New("db down")
	err := jobs.PurgeExpiredRefreshTokens(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, rec.err)
}
