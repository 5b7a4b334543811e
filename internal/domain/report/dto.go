package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	// Format renders the summary as a file (xlsx or csv) instead of JSON.
	Format string `json:"format"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs.Add("year", fmt.Sprintf("year must be between 2020 and %d", currentYear+1))
	}

	validator.ValidateOptionalEnum(&errs, "format", &r.Format, []string{"xlsx", "csv"})

	return errs.Err()
}

// Period returns the first and last calendar day of the requested month.
func (r MonthlyAttendanceReportRequest) Period() (time.Time, time.Time) {
	start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

type AttendanceSummary struct {
	TotalWorkDays    int     `json:"total_work_days"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	TotalLateMinutes int     `json:"total_late_minutes"`
	TotalPresent     int     `json:"total_present"`
	TotalLateDays    int     `json:"total_late_days"`
	TotalAbsent      int     `json:"total_absent"`
	TotalOnLeave     int     `json:"total_on_leave"`
}

type AttendanceDailyLog struct {
	Date          string  `json:"date"`
	DayOfWeek     string  `json:"day_of_week"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	Status        string  `json:"status"`
	Method        string  `json:"method"`
	LateMinutes   int     `json:"late_minutes"`
	WorkedMinutes int     `json:"worked_minutes"`
}

// ========================================
// NEW HIRE REPORT
// ========================================

type NewHireReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *NewHireReportRequest) Validate() error {
	var errs validator.ValidationErrors

	var startOK, endOK bool
	r.Start, startOK = validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	r.End, endOK = validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && r.End.Before(r.Start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type NewHireReport struct {
	GeneratedAt string `json:"generated_at"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Total       int    `json:"total"`

	Rows []NewHireRow `json:"rows"`
}

type NewHireRow struct {
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	Role         string  `json:"role"`
	WorkMode     string  `json:"work_mode"`
	HireDate     string  `json:"hire_date"`
	IsActive     bool    `json:"is_active"`
}
