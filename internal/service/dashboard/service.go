package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

const recentCheckInLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	attendanceRepo attendance.AttendanceRepository
	policy         attendance.Policy
	now            func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, attendanceRepo attendance.AttendanceRepository, policy attendance.Policy) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		attendanceRepo:      attendanceRepo,
		policy:              policy,
		now:                 time.Now,
	}
}

func attendanceStats(counts map[string]int64, active int64) dashboard.AttendanceStatsResponse {
	stats := dashboard.AttendanceStatsResponse{
		Present: counts[string(attendance.StatusPresent)],
		Late:    counts[string(attendance.StatusLate)],
		Absent:  counts[string(attendance.StatusAbsent)],
		OnLeave: counts[string(attendance.StatusOnLeave)],
		Total:   active,
	}
	recorded := stats.Present + stats.Late + stats.Absent + stats.OnLeave
	if active > recorded {
		stats.NotRecorded = active - recorded
	}
	if active > 0 {
		pct := float64(stats.Present+stats.Late) / float64(active) * 100
		stats.PresentPercent = math.Round(pct*10) / 10
	}
	return stats
}

// GetAdminDashboard returns the organisation overview. The five queries run in parallel.
func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (dashboard.AdminDashboardResponse, error) {
	now := s.now()
	today := s.policy.LocalDate(now)

	var (
		employeeStats    dashboard.EmployeeStats
		todayCounts      map[string]int64
		recentCheckIns   []dashboard.AttendanceRecordItem
		leaveCounts      map[string]int64
		taskCounts       map[string]int64
		overdueTaskCount int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employeeStats, err = s.GetEmployeeStats(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		todayCounts, err = s.AttendanceCountsByStatus(gCtx, nil, today, today)
		return err
	})

	g.Go(func() error {
		var err error
		recentCheckIns, err = s.RecentCheckIns(gCtx, today, recentCheckInLimit)
		return err
	})

	g.Go(func() error {
		var err error
		leaveCounts, err = s.LeaveCountsByStatus(gCtx, nil)
		return err
	})

	g.Go(func() error {
		var err error
		if taskCounts, err = s.TaskCountsByStatus(gCtx, nil); err != nil {
			return err
		}
		overdueTaskCount, err = s.OverdueTaskCount(gCtx, nil, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	if recentCheckIns == nil {
		recentCheckIns = []dashboard.AttendanceRecordItem{}
	}

	return dashboard.AdminDashboardResponse{
		Date: today.Format("2006-01-02"),
		Employees: dashboard.EmployeeSummaryResponse{
			Total:      employeeStats.Total,
			Active:     employeeStats.Active,
			Inactive:   employeeStats.Total - employeeStats.Active,
			ByRole:     employeeStats.ByRole,
			ByWorkMode: employeeStats.ByWorkMode,
		},
		TodayAttendance:   attendanceStats(todayCounts, employeeStats.Active),
		PendingLeaveCount: leaveCounts["pending"],
		TasksByStatus:     taskCounts,
		OverdueTaskCount:  overdueTaskCount,
		RecentCheckIns:    recentCheckIns,
		UpdatedAt:         now.UTC().Format(time.RFC3339),
	}, nil
}

// GetMyDashboard returns the caller's own overview for today and the current month.
func (s *DashboardServiceImpl) GetMyDashboard(ctx context.Context) (dashboard.MyDashboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return dashboard.MyDashboardResponse{}, err
	}
	if claims.EmployeeID == "" {
		return dashboard.MyDashboardResponse{}, employee.ErrNoEmployeeProfile
	}
	employeeID := claims.EmployeeID

	today := s.policy.LocalDate(s.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	resp := dashboard.MyDashboardResponse{
		Date:  today.Format("2006-01-02"),
		Month: today.Format("2006-01"),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := s.attendanceRepo.GetByEmployeeAndDate(gCtx, employeeID, today)
		if err != nil || record == nil {
			return err
		}
		status := string(record.Status)
		resp.TodayStatus = &status
		loc := s.policy.Location
		if record.CheckIn != nil {
			in := record.CheckIn.In(loc).Format("15:04")
			resp.TodayCheckIn = &in
		}
		if record.CheckOut != nil {
			out := record.CheckOut.In(loc).Format("15:04")
			resp.TodayCheckOut = &out
		}
		return nil
	})

	g.Go(func() error {
		var err error
		resp.MonthAttendance, err = s.AttendanceCountsByStatus(gCtx, &employeeID, monthStart, monthEnd)
		return err
	})

	g.Go(func() error {
		var err error
		resp.LeaveByStatus, err = s.LeaveCountsByStatus(gCtx, &employeeID)
		return err
	})

	g.Go(func() error {
		var err error
		if resp.TasksByStatus, err = s.TaskCountsByStatus(gCtx, &employeeID); err != nil {
			return err
		}
		resp.OverdueTaskCount, err = s.OverdueTaskCount(gCtx, &employeeID, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.MyDashboardResponse{}, err
	}

	return resp, nil
}
