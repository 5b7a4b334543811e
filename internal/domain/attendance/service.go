package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/attendancecode"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the caller's arrival after the proximity and QR checks
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the caller's record for today
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// BiometricPunch handles a fingerprint device event: first punch checks
	// in, the next one checks out.
	BiometricPunch(ctx context.Context, req BiometricPunchRequest) (AttendanceResponse, error)

	// CurrentQRCode returns the rotating code shown at the office
	CurrentQRCode(ctx context.Context) (attendancecode.Code, error)

	GetTodayStatus(ctx context.Context) (AttendanceStatusResponse, error)
	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// MarkAttendance lets an admin set an employee's status for a date
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error

	// ExportAttendance renders the records in [start, end] as xlsx or csv
	ExportAttendance(ctx context.Context, req ExportAttendanceRequest) (ExportFile, error)

	// CloseDay creates absent/on_leave records for employees with no record on date
	CloseDay(ctx context.Context, date time.Time) (int64, error)
}
