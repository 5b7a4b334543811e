package attendance

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/attendancecode"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/export"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-admin-backend/internal/service/file"
)

// Settings are the office rules the service enforces.
type Settings struct {
	Office    geofence.Office
	Policy    attendance.Policy
	DeviceKey string
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employeeRepo        employee.EmployeeRepository
	leaveRepo           leave.LeaveRequestRepository
	fileService         file.FileService
	notificationService notification.Service
	hub                 *sse.Hub
	codes               *attendancecode.Generator
	settings            Settings
	now                 func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	fileService file.FileService,
	notificationService notification.Service,
	hub *sse.Hub,
	codes *attendancecode.Generator,
	settings Settings,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		leaveRepo:            leaveRepo,
		fileService:          fileService,
		notificationService:  notificationService,
		hub:                  hub,
		codes:                codes,
		settings:             settings,
		now:                  time.Now,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (a *AttendanceServiceImpl) toResponse(ctx context.Context, att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                att.ID,
		EmployeeID:        att.EmployeeID,
		EmployeeName:      att.EmployeeName,
		EmployeeCode:      att.EmployeeCode,
		Department:        att.Department,
		Date:              att.Date.Format("2006-01-02"),
		CheckIn:           timePtrToString(att.CheckIn),
		CheckOut:          timePtrToString(att.CheckOut),
		CheckInLatitude:   att.CheckInLatitude,
		CheckInLongitude:  att.CheckInLongitude,
		CheckOutLatitude:  att.CheckOutLatitude,
		CheckOutLongitude: att.CheckOutLongitude,
		CheckInDistance:   att.CheckInDistance,
		CheckOutDistance:  att.CheckOutDistance,
		WorkedMinutes:     att.WorkedMinutes(),
		Status:            string(att.Status),
		Method:            string(att.Method),
		Notes:             att.Notes,
		CreatedAt:         att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         att.UpdatedAt.Format(time.RFC3339),
	}
	if att.ProofPhotoPath != nil {
		if url, err := a.fileService.GetFileURL(ctx, *att.ProofPhotoPath); err == nil {
			resp.ProofPhotoURL = &url
		}
	}
	return resp
}

// currentEmployee loads the caller's active employee profile.
func (a *AttendanceServiceImpl) currentEmployee(ctx context.Context) (employee.Employee, jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Employee{}, jwt.Claims{}, err
	}
	if claims.EmployeeID == "" {
		return employee.Employee{}, claims, employee.ErrNoEmployeeProfile
	}
	emp, err := a.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return employee.Employee{}, claims, err
	}
	if !emp.IsActive {
		return employee.Employee{}, claims, employee.ErrEmployeeInactive
	}
	return emp, claims, nil
}

// locate runs the proximity check for emp at the submitted coordinates.
func (a *AttendanceServiceImpl) locate(emp employee.Employee, lat, lon *float64) (geofence.Result, error) {
	point, err := geofence.NewPoint(lat, lon)
	if err != nil {
		return geofence.Result{}, err
	}
	result := a.settings.Office.Check(point, emp.WorkMode)
	if !result.WithinRange {
		return result, &attendance.OutsideRadiusError{OutsideRadiusDetails: attendance.OutsideRadiusDetails{
			DistanceMeters: result.DistanceMeters,
			RadiusMeters:   a.settings.Office.RadiusMeters,
		}}
	}
	return result, nil
}

func (a *AttendanceServiceImpl) isOnLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	ids, err := a.leaveRepo.ApprovedEmployeeIDsOn(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return slices.Contains(ids, employeeID), nil
}

// announce pushes the change to admin dashboards and confirms it to the employee.
func (a *AttendanceServiceImpl) announce(ctx context.Context, recipientUserID string, notifType notification.NotificationType, title, message string, resp attendance.AttendanceResponse) {
	a.hub.PublishToAdmins(sse.Event{Event: sse.EventAttendanceUpdated, Data: resp})
	a.hub.Publish(recipientUserID, sse.Event{Event: sse.EventAttendanceUpdated, Data: resp})

	err := a.notificationService.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: recipientUserID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data: map[string]any{
			"attendance_id": resp.ID,
			"date":          resp.Date,
			"status":        resp.Status,
		},
	})
	if err != nil {
		slog.Warn("failed to queue attendance notification", "attendance_id", resp.ID, "error", err)
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, claims, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().UTC()
	date := a.settings.Policy.LocalDate(now)

	located, err := a.locate(emp, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if attendance.Method(req.Method) == attendance.MethodQR {
		if req.QRCode == nil || *req.QRCode == "" {
			return attendance.AttendanceResponse{}, attendance.ErrQRCodeRequired
		}
		if err := a.codes.Verify(*req.QRCode, now); err != nil {
			return attendance.AttendanceResponse{}, attendance.ErrInvalidQRCode
		}
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil {
		if existing.Status == attendance.StatusOnLeave {
			return attendance.AttendanceResponse{}, attendance.ErrOnLeave
		}
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	onLeave, err := a.isOnLeave(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if onLeave {
		return attendance.AttendanceResponse{}, attendance.ErrOnLeave
	}

	var photoPath *string
	if req.File != nil && req.FileHeader != nil {
		key, err := a.fileService.UploadAttendanceProof(ctx, emp.ID, date, req.File, req.FileHeader.Filename, "check-in")
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
		}
		photoPath = &key
	}

	distance := located.DistanceMeters
	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:       emp.ID,
		Date:             date,
		CheckIn:          &now,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInDistance:  &distance,
		Status:           a.settings.Policy.StatusFor(now),
		Method:           attendance.Method(req.Method),
		ProofPhotoPath:   photoPath,
		Notes:            req.Notes,
	})
	if err != nil {
		if photoPath != nil {
			_ = a.fileService.DeleteFile(ctx, *photoPath)
		}
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	resp := a.toResponse(ctx, created)
	a.announce(ctx, claims.UserID, notification.TypeAttendanceCheckIn,
		"Checked in",
		fmt.Sprintf("You checked in at %s (%s)", now.In(a.settings.Policy.Location).Format("15:04"), created.Status),
		resp)

	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, claims, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().UTC()
	date := a.settings.Policy.LocalDate(now)

	located, err := a.locate(emp, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || existing.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	distance := located.DistanceMeters
	record := *existing
	record.CheckOut = &now
	record.CheckOutLatitude = req.Latitude
	record.CheckOutLongitude = req.Longitude
	record.CheckOutDistance = &distance
	record.Notes = req.Notes

	updated, err := a.AttendanceRepository.RecordCheckOut(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := a.toResponse(ctx, updated)
	a.announce(ctx, claims.UserID, notification.TypeAttendanceCheckOut,
		"Checked out",
		fmt.Sprintf("You checked out at %s after %d minutes", now.In(a.settings.Policy.Location).Format("15:04"), updated.WorkedMinutes()),
		resp)

	return resp, nil
}

// BiometricPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BiometricPunch(ctx context.Context, req attendance.BiometricPunchRequest) (attendance.AttendanceResponse, error) {
	if a.settings.DeviceKey == "" || subtle.ConstantTimeCompare([]byte(req.DeviceKey), []byte(a.settings.DeviceKey)) != 1 {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidDeviceKey
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	punchedAt := req.PunchedAt.UTC()
	if req.PunchedAt.IsZero() {
		punchedAt = a.now().UTC()
	}

	emp, err := a.employeeRepo.GetByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	date := a.settings.Policy.LocalDate(punchedAt)
	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	var record attendance.Attendance
	notifType := notification.TypeAttendanceCheckIn
	switch {
	case existing == nil:
		record, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       date,
			CheckIn:    &punchedAt,
			Status:     a.settings.Policy.StatusFor(punchedAt),
			Method:     attendance.MethodBiometric,
		})
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
	case existing.CheckIn == nil:
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
	case existing.CheckOut != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	case !punchedAt.After(*existing.CheckIn):
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	default:
		notifType = notification.TypeAttendanceCheckOut
		open := *existing
		open.CheckOut = &punchedAt
		record, err = a.AttendanceRepository.RecordCheckOut(ctx, open)
	}
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := a.toResponse(ctx, record)
	title := "Checked in"
	if notifType == notification.TypeAttendanceCheckOut {
		title = "Checked out"
	}
	a.announce(ctx, emp.UserID, notifType, title,
		fmt.Sprintf("Fingerprint punch recorded at %s", punchedAt.In(a.settings.Policy.Location).Format("15:04")),
		resp)

	return resp, nil
}

// CurrentQRCode implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CurrentQRCode(ctx context.Context) (attendancecode.Code, error) {
	return a.codes.Current(a.now())
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.AttendanceStatusResponse, error) {
	emp, _, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.AttendanceStatusResponse{}, err
	}

	date := a.settings.Policy.LocalDate(a.now())
	status := attendance.AttendanceStatusResponse{
		Date:     date.Format("2006-01-02"),
		WorkMode: string(emp.WorkMode),
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	status.OnLeave, err = a.isOnLeave(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceStatusResponse{}, err
	}

	if record != nil {
		resp := a.toResponse(ctx, *record)
		status.TodayAttendance = &resp
		status.HasCheckedIn = record.CheckIn != nil
		status.HasCheckedOut = record.CheckOut != nil
		if record.Status == attendance.StatusOnLeave {
			status.OnLeave = true
		}
	}

	switch {
	case status.OnLeave:
		status.Message = "You are on approved leave today"
	case record == nil:
		status.CanCheckIn = true
		status.Message = "You have not checked in yet"
	case record.IsOpen():
		status.CanCheckOut = true
		status.Message = "You are checked in"
	case status.HasCheckedOut:
		status.Message = "You have completed today's attendance"
	default:
		status.Message = fmt.Sprintf("Today's attendance was marked %s", record.Status)
	}

	return status, nil
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, a.toResponse(ctx, record))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  pagination.TotalPages(total, filter.Limit),
		Showing:     pagination.Showing(filter.Page, filter.Limit, total),
		Attendances: responses,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if claims.EmployeeID == "" {
		return attendance.ListAttendanceResponse{}, employee.ErrNoEmployeeProfile
	}
	filter.EmployeeID = &claims.EmployeeID
	filter.Search = nil
	return a.list(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return a.list(ctx, filter)
}

// GetAttendance implements attendance.AttendanceService. Employees only see
// their own records.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !claims.IsAdmin() && record.EmployeeID != claims.EmployeeID {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return a.toResponse(ctx, record), nil
}

func parseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// MarkAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	record, err := a.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       date,
		CheckIn:    parseTimestamp(req.CheckIn),
		CheckOut:   parseTimestamp(req.CheckOut),
		Status:     attendance.Status(req.Status),
		Method:     attendance.MethodManual,
		Notes:      req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := a.toResponse(ctx, record)
	a.announce(ctx, emp.UserID, notification.TypeAttendanceMarked,
		"Attendance updated",
		fmt.Sprintf("Your attendance for %s was marked %s", resp.Date, resp.Status),
		resp)

	return resp, nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.CheckIn != nil {
		record.CheckIn = parseTimestamp(req.CheckIn)
	}
	if req.CheckOut != nil {
		record.CheckOut = parseTimestamp(req.CheckOut)
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	if record.CheckIn != nil && record.CheckOut != nil && !record.CheckOut.After(*record.CheckIn) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	}
	if record.CheckIn == nil && record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	}

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.GetByID(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := a.toResponse(ctx, updated)
	a.hub.PublishToAdmins(sse.Event{Event: sse.EventAttendanceUpdated, Data: resp})
	return resp, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	if record.ProofPhotoPath != nil {
		if err := a.fileService.DeleteFile(ctx, *record.ProofPhotoPath); err != nil {
			slog.Warn("failed to delete attendance proof", "key", *record.ProofPhotoPath, "error", err)
		}
	}
	return nil
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

// ExportAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportAttendance(ctx context.Context, req attendance.ExportAttendanceRequest) (attendance.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return attendance.ExportFile{}, err
	}

	records, err := a.AttendanceRepository.ListRange(ctx, req.Start, req.End)
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to load attendance for export: %w", err)
	}

	loc := a.settings.Policy.Location
	table := export.Table{
		Sheet: "Attendance",
		Headers: []string{
			"Date", "Employee Code", "Name", "Department", "Status", "Method",
			"Check In", "Check Out", "Worked Hours", "Distance (m)", "Notes",
		},
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		department := ""
		if r.Department != nil {
			department = *r.Department
		}
		distance := ""
		if r.CheckInDistance != nil {
			distance = strconv.Itoa(*r.CheckInDistance)
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		worked := ""
		if minutes := r.WorkedMinutes(); minutes > 0 {
			worked = strconv.FormatFloat(float64(minutes)/60, 'f', 2, 64)
		}
		table.Rows = append(table.Rows, []string{
			r.Date.Format("2006-01-02"),
			r.EmployeeCode,
			r.EmployeeName,
			department,
			string(r.Status),
			string(r.Method),
			formatClock(r.CheckIn, loc),
			formatClock(r.CheckOut, loc),
			worked,
			distance,
			notes,
		})
	}

	content, contentType, err := export.Render(table, req.Format)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	return attendance.ExportFile{
		Filename:    fmt.Sprintf("attendance_%s_%s.%s", req.StartDate, req.EndDate, req.Format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// CloseDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CloseDay(ctx context.Context, date time.Time) (int64, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	active, err := a.employeeRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}
	recorded, err := a.AttendanceRepository.EmployeeIDsWithRecord(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list recorded employees: %w", err)
	}
	onLeave, err := a.leaveRepo.ApprovedEmployeeIDsOn(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees on leave: %w", err)
	}

	records := make([]attendance.Attendance, 0, len(active))
	for _, emp := range active {
		if slices.Contains(recorded, emp.ID) {
			continue
		}
		// Employees hired after the closed day have nothing to account for
		if !emp.CreatedAt.IsZero() && a.settings.Policy.LocalDate(emp.CreatedAt).After(date) {
			continue
		}
		status := attendance.StatusAbsent
		if slices.Contains(onLeave, emp.ID) {
			status = attendance.StatusOnLeave
		}
		records = append(records, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       date,
			Status:     status,
			Method:     attendance.MethodManual,
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	created, err := a.AttendanceRepository.BulkCreate(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("failed to close day: %w", err)
	}

	if created > 0 {
		a.hub.PublishToAdmins(sse.Event{Event: sse.EventAttendanceUpdated, Data: map[string]any{
			"date":    date.Format("2006-01-02"),
			"created": created,
		}})
	}
	return created, nil
}
