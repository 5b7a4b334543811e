package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, newAttendance Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	// RecordCheckOut only succeeds while check_out is still empty.
	RecordCheckOut(ctx context.Context, att Attendance) (Attendance, error)
	Upsert(ctx context.Context, att Attendance) (Attendance, error)
	Update(ctx context.Context, att Attendance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	ListRange(ctx context.Context, start, end time.Time) ([]Attendance, error)
	EmployeeIDsWithRecord(ctx context.Context, date time.Time) ([]string, error)
	// BulkCreate skips employees who already have a record for the date.
	BulkCreate(ctx context.Context, records []Attendance) (int64, error)
}
