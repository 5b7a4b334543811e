package dashboard

// AdminDashboardResponse is the combined response for the admin dashboard
type AdminDashboardResponse struct {
	Date              string                  `json:"date"` // YYYY-MM-DD, office local
	Employees         EmployeeSummaryResponse `json:"employees"`
	TodayAttendance   AttendanceStatsResponse `json:"today_attendance"`
	PendingLeaveCount int64                   `json:"pending_leave_count"`
	TasksByStatus     map[string]int64        `json:"tasks_by_status"`
	OverdueTaskCount  int64                   `json:"overdue_task_count"`
	RecentCheckIns    []AttendanceRecordItem  `json:"recent_check_ins"`
	UpdatedAt         string                  `json:"updated_at"`
}

type EmployeeSummaryResponse struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Inactive   int64            `json:"inactive"`
	ByRole     map[string]int64 `json:"by_role"`
	ByWorkMode map[string]int64 `json:"by_work_mode"`
}

// AttendanceStatsResponse counts one day's records. NotRecorded is active
// employees without a row yet.
type AttendanceStatsResponse struct {
	Present        int64   `json:"present"`
	Late           int64   `json:"late"`
	Absent         int64   `json:"absent"`
	OnLeave        int64   `json:"on_leave"`
	NotRecorded    int64   `json:"not_recorded"`
	Total          int64   `json:"total"`
	PresentPercent float64 `json:"present_percent"`
}

type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeName string  `json:"employee_name"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // HH:MM
}

// MyDashboardResponse is the employee's own overview
type MyDashboardResponse struct {
	Date             string           `json:"date"`
	Month            string           `json:"month"` // YYYY-MM
	TodayStatus      *string          `json:"today_status,omitempty"`
	TodayCheckIn     *string          `json:"today_check_in,omitempty"`
	TodayCheckOut    *string          `json:"today_check_out,omitempty"`
	MonthAttendance  map[string]int64 `json:"month_attendance"`
	LeaveByStatus    map[string]int64 `json:"leave_by_status"`
	TasksByStatus    map[string]int64 `json:"tasks_by_status"`
	OverdueTaskCount int64            `json:"overdue_task_count"`
}
