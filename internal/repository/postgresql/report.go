package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/report"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

// NewReportRepository returns the report queries. loc decides which calendar
// day an employee's created_at falls on.
func NewReportRepository(db *database.DB, loc *time.Location) report.ReportRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &reportRepositoryImpl{db: db, loc: loc}
}

func (r *reportRepositoryImpl) MonthlyAttendance(ctx context.Context, start, end time.Time) ([]report.EmployeeAttendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+`
		WHERE (e.is_active AND (e.created_at AT TIME ZONE $3)::date <= $2)
			OR EXISTS (
				SELECT 1 FROM attendances a
				WHERE a.employee_id = e.id AND a.date BETWEEN $1 AND $2
			)
		ORDER BY e.full_name`, start, end, r.loc.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get report employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, attendanceSelect+`
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get report attendance: %w", err)
	}
	defer rows.Close()

	records, err := collectAttendances(rows)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, a := range records {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	result := make([]report.EmployeeAttendance, 0, len(employees))
	for _, e := range employees {
		result = append(result, report.EmployeeAttendance{Employee: e, Records: byEmployee[e.ID]})
	}
	return result, nil
}

func (r *reportRepositoryImpl) NewHires(ctx context.Context, start, end time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+`
		WHERE (e.created_at AT TIME ZONE $3)::date BETWEEN $1 AND $2
		ORDER BY e.created_at, e.full_name`, start, end, r.loc.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get new hires: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}
