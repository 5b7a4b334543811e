package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

// NewDashboardRepository returns the read-only aggregate queries backing the
// dashboards. loc formats check-in times as office wall clock.
func NewDashboardRepository(db *database.DB, loc *time.Location) dashboard.DashboardRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardRepositoryImpl{db: db, loc: loc}
}

// countBy runs a "SELECT key, COUNT(*) ... GROUP BY key" query into a map.
func (r *dashboardRepositoryImpl) countBy(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// GetEmployeeStats returns headcount, active count and distributions in two round trips
func (r *dashboardRepositoryImpl) GetEmployeeStats(ctx context.Context) (dashboard.EmployeeStats, error) {
	q := GetQuerier(ctx, r.db)

	var stats dashboard.EmployeeStats
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active
		FROM employees
	`).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return stats, fmt.Errorf("failed to get employee summary: %w", err)
	}

	stats.ByRole, err = r.countBy(ctx, `
		SELECT u.role, COUNT(*)
		FROM employees e
		JOIN users u ON u.id = e.user_id
		WHERE e.is_active
		GROUP BY u.role
	`)
	if err != nil {
		return stats, fmt.Errorf("failed to count employees by role: %w", err)
	}

	stats.ByWorkMode, err = r.countBy(ctx, `
		SELECT work_mode, COUNT(*)
		FROM employees
		WHERE is_active
		GROUP BY work_mode
	`)
	if err != nil {
		return stats, fmt.Errorf("failed to count employees by work mode: %w", err)
	}

	return stats, nil
}

func (r *dashboardRepositoryImpl) AttendanceCountsByStatus(ctx context.Context, employeeID *string, start, end time.Time) (map[string]int64, error) {
	counts, err := r.countBy(ctx, `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		AND ($3::uuid IS NULL OR employee_id = $3::uuid)
		GROUP BY status
	`, start, end, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	return counts, nil
}

// RecentCheckIns lists the latest check-ins recorded for date
func (r *dashboardRepositoryImpl) RecentCheckIns(ctx context.Context, date time.Time, limit int) ([]dashboard.AttendanceRecordItem, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT e.full_name, a.status, a.check_in
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.date = $1 AND a.check_in IS NOT NULL
		ORDER BY a.check_in DESC
		LIMIT $2
	`, date, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent check-ins: %w", err)
	}
	defer rows.Close()

	records := []dashboard.AttendanceRecordItem{}
	no := 1
	for rows.Next() {
		var record dashboard.AttendanceRecordItem
		var checkIn *time.Time
		if err := rows.Scan(&record.EmployeeName, &record.Status, &checkIn); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		record.No = no
		if checkIn != nil {
			s := checkIn.In(r.loc).Format("15:04")
			record.CheckIn = &s
		}
		records = append(records, record)
		no++
	}

	return records, rows.Err()
}

func (r *dashboardRepositoryImpl) LeaveCountsByStatus(ctx context.Context, employeeID *string) (map[string]int64, error) {
	counts, err := r.countBy(ctx, `
		SELECT status, COUNT(*)
		FROM leave_requests
		WHERE ($1::uuid IS NULL OR employee_id = $1::uuid)
		GROUP BY status
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count leave requests by status: %w", err)
	}
	return counts, nil
}

func (r *dashboardRepositoryImpl) TaskCountsByStatus(ctx context.Context, assigneeID *string) (map[string]int64, error) {
	counts, err := r.countBy(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE ($1::uuid IS NULL OR assignee_id = $1::uuid)
		GROUP BY status
	`, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	return counts, nil
}

func (r *dashboardRepositoryImpl) OverdueTaskCount(ctx context.Context, assigneeID *string, today time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE due_date < $1
		AND status IN ('not_started', 'in_progress')
		AND ($2::uuid IS NULL OR assignee_id = $2::uuid)
	`, today, assigneeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return count, nil
}
