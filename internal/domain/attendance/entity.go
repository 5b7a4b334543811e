package attendance

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnLeave Status = "on_leave"
)

var validStatuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusLate), string(StatusOnLeave)}

type Method string

const (
	MethodQR        Method = "qr"
	MethodManual    Method = "manual"
	MethodBiometric Method = "biometric"
)

var validMethods = []string{string(MethodQR), string(MethodManual), string(MethodBiometric)}

// Attendance is one employee's record for one office-local date.
type Attendance struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	CheckIn           *time.Time
	CheckOut          *time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckInDistance   *int
	CheckOutDistance  *int
	Status            Status
	Method            Method
	ProofPhotoPath    *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined from employees
	EmployeeName string
	EmployeeCode string
	Department   *string
}

// WorkedMinutes is zero until the record has both timestamps.
func (a Attendance) WorkedMinutes() int {
	if a.CheckIn == nil || a.CheckOut == nil || a.CheckOut.Before(*a.CheckIn) {
		return 0
	}
	return int(a.CheckOut.Sub(*a.CheckIn).Minutes())
}

func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}
