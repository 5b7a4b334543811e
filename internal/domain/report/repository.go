package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
)

// EmployeeAttendance is one employee with their records for a period,
// ordered by date.
type EmployeeAttendance struct {
	Employee employee.Employee
	Records  []attendance.Attendance
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// MonthlyAttendance returns active employees hired on or before end, plus
	// anyone holding a record in the period, ordered by name.
	MonthlyAttendance(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error)

	// NewHires lists employees whose office-local hire date is within the range.
	NewHires(ctx context.Context, start, end time.Time) ([]employee.Employee, error)
}
