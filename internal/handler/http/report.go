package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/report"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

type ReportHandler interface {
	// GetMonthlyAttendanceReport returns per-employee attendance for a month,
	// as JSON or as a file when ?format is set
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetNewHireReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// GetMonthlyAttendanceReport handles GET /reports/attendance?month=3&year=2026
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.MonthlyAttendanceReportRequest{
		Month:  month,
		Year:   year,
		Format: r.URL.Query().Get("format"),
	}

	if req.Format != "" {
		file, err := h.reportService.ExportMonthlyAttendanceReport(r.Context(), req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.File(w, file.Filename, file.ContentType, file.Content)
		return
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetNewHireReport handles GET /reports/new-hires?start_date=&end_date=
func (h *reportHandlerImpl) GetNewHireReport(w http.ResponseWriter, r *http.Request) {
	req := report.NewHireReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.reportService.GenerateNewHireReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
