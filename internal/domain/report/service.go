package report

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
)

// ReportService defines the interface for report generation
type ReportService interface {
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)
	// ExportMonthlyAttendanceReport renders the per-employee summary in req.Format.
	ExportMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (attendance.ExportFile, error)

	GenerateNewHireReport(ctx context.Context, req NewHireReportRequest) (NewHireReport, error)
}
