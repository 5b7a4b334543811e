package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// DeviceKeyHeader authenticates biometric terminals.
const DeviceKeyHeader = "X-Device-Key"

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	BiometricPunch(w http.ResponseWriter, r *http.Request)
	QRCode(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn accepts JSON, or multipart with an optional "photo" proof.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	if isMultipart(r) {
		if err := decodeForm(r, maxPhotoUpload, &req); err != nil {
			slog.Error("CheckIn form error", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		if r.FormValue("data") == "" {
			req.Latitude = formFloat(r, "latitude")
			req.Longitude = formFloat(r, "longitude")
			req.Method = r.FormValue("method")
			req.QRCode = formString(r, "qr_code")
			req.Notes = formString(r, "notes")
		}

		file, fileHeader, err := r.FormFile("photo")
		switch {
		case err == nil:
			defer file.Close()
			req.File = file
			req.FileHeader = fileHeader
		case !errors.Is(err, http.ErrMissingFile):
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		slog.Warn("CheckIn rejected", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		slog.Warn("CheckOut rejected", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// BiometricPunch is called by fingerprint terminals, not by browsers.
func (h *attendanceHandlerImpl) BiometricPunch(w http.ResponseWriter, r *http.Request) {
	var req attendance.BiometricPunchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.DeviceKey = r.Header.Get(DeviceKeyHeader)

	result, err := h.attendanceService.BiometricPunch(r.Context(), req)
	if err != nil {
		slog.Warn("Biometric punch rejected", "error", err, "employee_code", req.EmployeeCode)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch recorded", result)
}

func (h *attendanceHandlerImpl) QRCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.attendanceService.CurrentQRCode(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, code)
}

func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetTodayStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID: queryString(r, "employee_id"),
		Search:     queryString(r, "search"),
		Date:       queryString(r, "date"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Status:     queryString(r, "status"),
		Method:     queryString(r, "method"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
}

func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked", result)
}

func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", result)
}

func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteAttendance(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted", nil)
}

// Export streams an xlsx or csv file of the records in a date range.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := attendance.ExportAttendanceRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Format:    r.URL.Query().Get("format"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.attendanceService.ExportAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
