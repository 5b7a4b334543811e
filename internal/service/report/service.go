package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/report"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/export"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	policy     attendance.Policy
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, policy attendance.Policy) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *ReportServiceImpl) clock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.In(s.policy.Location).Format("15:04")
	return &v
}

// summarize folds one employee's records into the report row.
func (s *ReportServiceImpl) summarize(ea report.EmployeeAttendance) report.MonthlyAttendanceEmployee {
	emp := report.MonthlyAttendanceEmployee{
		EmployeeID:   ea.Employee.ID,
		EmployeeCode: ea.Employee.EmployeeCode,
		EmployeeName: ea.Employee.FullName,
		Department:   ea.Employee.Department,
		Position:     ea.Employee.Position,
		DailyLogs:    make([]report.AttendanceDailyLog, 0, len(ea.Records)),
	}

	workedMinutes := 0
	for _, r := range ea.Records {
		lateMinutes := 0
		switch r.Status {
		case attendance.StatusPresent:
			emp.Summary.TotalPresent++
		case attendance.StatusLate:
			emp.Summary.TotalLateDays++
			if r.CheckIn != nil {
				lateMinutes = s.policy.LateMinutes(*r.CheckIn)
			}
		case attendance.StatusAbsent:
			emp.Summary.TotalAbsent++
		case attendance.StatusOnLeave:
			emp.Summary.TotalOnLeave++
		}
		emp.Summary.TotalLateMinutes += lateMinutes
		workedMinutes += r.WorkedMinutes()

		emp.DailyLogs = append(emp.DailyLogs, report.AttendanceDailyLog{
			Date:          r.Date.Format("2006-01-02"),
			DayOfWeek:     r.Date.Weekday().String(),
			CheckIn:       s.clock(r.CheckIn),
			CheckOut:      s.clock(r.CheckOut),
			Status:        string(r.Status),
			Method:        string(r.Method),
			LateMinutes:   lateMinutes,
			WorkedMinutes: r.WorkedMinutes(),
		})
	}

	emp.Summary.TotalWorkDays = emp.Summary.TotalPresent + emp.Summary.TotalLateDays
	emp.Summary.TotalWorkHours = math.Round(float64(workedMinutes)/60*100) / 100
	return emp
}

// GenerateMonthlyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	periodStart, periodEnd := req.Period()

	rows, err := s.reportRepo.MonthlyAttendance(ctx, periodStart, periodEnd)
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	employees := make([]report.MonthlyAttendanceEmployee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, s.summarize(row))
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
		Employees:   employees,
	}, nil
}

// ExportMonthlyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (attendance.ExportFile, error) {
	if req.Format == "" {
		req.Format = export.FormatXLSX
	}

	result, err := s.GenerateMonthlyAttendanceReport(ctx, req)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	table := export.Table{
		Sheet: "Monthly Attendance",
		Headers: []string{
			"Employee Code", "Name", "Department", "Position", "Work Days", "Present",
			"Late Days", "Late Minutes", "Absent", "On Leave", "Work Hours",
		},
		Rows: make([][]string, 0, len(result.Employees)),
	}
	for _, e := range result.Employees {
		department, position := "", ""
		if e.Department != nil {
			department = *e.Department
		}
		if e.Position != nil {
			position = *e.Position
		}
		table.Rows = append(table.Rows, []string{
			e.EmployeeCode,
			e.EmployeeName,
			department,
			position,
			strconv.Itoa(e.Summary.TotalWorkDays),
			strconv.Itoa(e.Summary.TotalPresent),
			strconv.Itoa(e.Summary.TotalLateDays),
			strconv.Itoa(e.Summary.TotalLateMinutes),
			strconv.Itoa(e.Summary.TotalAbsent),
			strconv.Itoa(e.Summary.TotalOnLeave),
			strconv.FormatFloat(e.Summary.TotalWorkHours, 'f', 2, 64),
		})
	}

	content, contentType, err := export.Render(table, req.Format)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	return attendance.ExportFile{
		Filename:    fmt.Sprintf("attendance_report_%04d-%02d.%s", req.Year, req.Month, req.Format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// GenerateNewHireReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateNewHireReport(ctx context.Context, req report.NewHireReportRequest) (report.NewHireReport, error) {
	if err := req.Validate(); err != nil {
		return report.NewHireReport{}, err
	}

	employees, err := s.reportRepo.NewHires(ctx, req.Start, req.End)
	if err != nil {
		return report.NewHireReport{}, fmt.Errorf("failed to get new hire data: %w", err)
	}

	rows := make([]report.NewHireRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, report.NewHireRow{
			EmployeeCode: e.EmployeeCode,
			FullName:     e.FullName,
			Email:        e.Email,
			Department:   e.Department,
			Position:     e.Position,
			Role:         string(e.Role),
			WorkMode:     string(e.WorkMode),
			HireDate:     s.policy.LocalDate(e.CreatedAt).Format("2006-01-02"),
			IsActive:     e.IsActive,
		})
	}

	return report.NewHireReport{
		GeneratedAt: s.now().Format(time.RFC3339),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Total:       len(rows),
		Rows:        rows,
	}, nil
}
