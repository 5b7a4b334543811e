package dashboard

import (
	"context"
	"time"
)

type EmployeeStats struct {
	Total      int64
	Active     int64
	ByRole     map[string]int64
	ByWorkMode map[string]int64
}

type DashboardRepository interface {
	GetEmployeeStats(ctx context.Context) (EmployeeStats, error)

	// AttendanceCountsByStatus counts attendance rows for employeeID (or everyone
	// when nil) between start and end inclusive, grouped by status.
	AttendanceCountsByStatus(ctx context.Context, employeeID *string, start, end time.Time) (map[string]int64, error)
	RecentCheckIns(ctx context.Context, date time.Time, limit int) ([]AttendanceRecordItem, error)

	LeaveCountsByStatus(ctx context.Context, employeeID *string) (map[string]int64, error)

	TaskCountsByStatus(ctx context.Context, assigneeID *string) (map[string]int64, error)
	// OverdueTaskCount counts open tasks whose due date is before today.
	OverdueTaskCount(ctx context.Context, assigneeID *string, today time.Time) (int64, error)
}
