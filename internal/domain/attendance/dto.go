package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

const maxProofPhotoSize = 10 << 20

type CheckInRequest struct {
	Latitude   *float64              `json:"latitude"`
	Longitude  *float64              `json:"longitude"`
	Method     string                `json:"method"`
	QRCode     *string               `json:"qr_code,omitempty"`
	Notes      *string               `json:"notes,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

// Validate checks shape only. Missing coordinates are reported by the
// service as ErrLocationRequired so the client gets the dedicated message.
func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Method == "" {
		r.Method = string(MethodQR)
	}
	if r.Method != string(MethodQR) && r.Method != string(MethodManual) {
		errs.Add("method", "method must be one of: qr, manual")
	}

	validateCoordinates(&errs, "latitude", "longitude", r.Latitude, r.Longitude)
	validateProofPhoto(&errs, r.FileHeader)

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	validateCoordinates(&errs, "latitude", "longitude", r.Latitude, r.Longitude)
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// BiometricPunchRequest is sent by a fingerprint terminal.
type BiometricPunchRequest struct {
	DeviceKey    string `json:"-"`
	EmployeeCode string `json:"employee_code"`
	Timestamp    string `json:"timestamp"` // RFC3339, defaults to now

	PunchedAt time.Time `json:"-"`
}

func (r *BiometricPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	}
	if r.Timestamp != "" {
		t, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 date-time")
		}
		r.PunchedAt = t
	}

	return errs.Err()
}

// MarkAttendanceRequest is an admin override for one employee and date.
type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	CheckIn    *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut   *string `json:"check_out,omitempty"` // RFC3339
	Notes      *string `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else {
		validator.ValidateOptionalDate(&errs, "date", &r.Date)
	}

	if validator.IsEmpty(r.Status) {
		errs.Add("status", "status is required")
	} else {
		validator.ValidateOptionalEnum(&errs, "status", &r.Status, validStatuses)
	}

	validateTimestamps(&errs, r.CheckIn, r.CheckOut)

	return errs.Err()
}

// UpdateAttendanceRequest lets an admin correct a record.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	Status   *string `json:"status,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut *string `json:"check_out,omitempty"` // RFC3339
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Status == nil && r.CheckIn == nil && r.CheckOut == nil && r.Notes == nil {
		errs.Add("body", "nothing to update")
	}
	validator.ValidateOptionalEnum(&errs, "status", r.Status, validStatuses)
	validateTimestamps(&errs, r.CheckIn, r.CheckOut)

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Search     *string `json:"search,omitempty"` // employee name or code
	Date       *string `json:"date,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Status     *string `json:"status,omitempty"`
	Method     *string `json:"method,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // date, employee_name, check_in, check_out, status
	SortOrder string `json:"sort_order"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidatePagination(&errs, &f.Page, &f.Limit)
	validator.ValidateOptionalEnum(&errs, "status", f.Status, validStatuses)
	validator.ValidateOptionalEnum(&errs, "method", f.Method, validMethods)
	validator.ValidateOptionalDate(&errs, "date", f.Date)
	validator.ValidateOptionalDate(&errs, "start_date", f.StartDate)
	validator.ValidateOptionalDate(&errs, "end_date", f.EndDate)
	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.EndDate < *f.StartDate {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	validator.ValidateSort(&errs, &f.SortBy, &f.SortOrder, []string{"date", "employee_name", "check_in", "check_out", "status"}, "date")

	return errs.Err()
}

type ExportAttendanceRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Format    string `json:"format"` // xlsx or csv

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *ExportAttendanceRequest) Validate() error {
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
	if startOK && endOK {
		if r.End.Before(r.Start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if r.End.Sub(r.Start) > 366*24*time.Hour {
			errs.Add("end_date", "export range must not exceed one year")
		}
	}

	if r.Format == "" {
		r.Format = "xlsx"
	}
	validator.ValidateOptionalEnum(&errs, "format", &r.Format, []string{"xlsx", "csv"})

	return errs.Err()
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      string   `json:"employee_name,omitempty"`
	EmployeeCode      string   `json:"employee_code,omitempty"`
	Department        *string  `json:"department,omitempty"`
	Date              string   `json:"date"`
	CheckIn           *string  `json:"check_in,omitempty"`
	CheckOut          *string  `json:"check_out,omitempty"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	CheckInDistance   *int     `json:"check_in_distance_meters,omitempty"`
	CheckOutDistance  *int     `json:"check_out_distance_meters,omitempty"`
	WorkedMinutes     int      `json:"worked_minutes"`
	Status            string   `json:"status"`
	Method            string   `json:"method"`
	ProofPhotoURL     *string  `json:"proof_photo_url,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type AttendanceStatusResponse struct {
	Date            string              `json:"date"`
	WorkMode        string              `json:"work_mode"`
	OnLeave         bool                `json:"on_leave"`
	HasCheckedIn    bool                `json:"has_checked_in"`
	HasCheckedOut   bool                `json:"has_checked_out"`
	TodayAttendance *AttendanceResponse `json:"today_attendance,omitempty"`
	CanCheckIn      bool                `json:"can_check_in"`
	CanCheckOut     bool                `json:"can_check_out"`
	Message         string              `json:"message"`
}

// OutsideRadiusDetails is returned with ErrOutsideAllowedRadius.
type OutsideRadiusDetails struct {
	DistanceMeters int     `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
}

func validateCoordinates(errs *validator.ValidationErrors, latField, lonField string, lat, lon *float64) {
	if lat != nil && !validator.IsValidLatitude(*lat) {
		errs.Add(latField, latField+" must be between -90 and 90")
	}
	if lon != nil && !validator.IsValidLongitude(*lon) {
		errs.Add(lonField, lonField+" must be between -180 and 180")
	}
}

func validateProofPhoto(errs *validator.ValidationErrors, fh *multipart.FileHeader) {
	if fh == nil {
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		errs.Add("photo", "invalid file type: only jpg, jpeg, png allowed")
	} else if fh.Size > maxProofPhotoSize {
		errs.Add("photo", "photo size must not exceed 10MB")
	}
}

func validateTimestamps(errs *validator.ValidationErrors, checkIn, checkOut *string) {
	var in, out time.Time
	var inOK, outOK bool
	if checkIn != nil {
		if in, inOK = validator.IsValidDateTime(*checkIn); !inOK {
			errs.Add("check_in", "check_in must be an RFC3339 date-time")
		}
	}
	if checkOut != nil {
		if out, outOK = validator.IsValidDateTime(*checkOut); !outOK {
			errs.Add("check_out", "check_out must be an RFC3339 date-time")
		}
	}
	if inOK && outOK && !out.After(in) {
		errs.Add("check_out", "check_out must be after check_in")
	}
}
