package leave

import "time"

type LeaveType string

const (
	TypeSick      LeaveType = "sick"
	TypeCasual    LeaveType = "casual"
	TypeAnnual    LeaveType = "annual"
	TypeMaternity LeaveType = "maternity"
	TypePaternity LeaveType = "paternity"
	TypeUnpaid    LeaveType = "unpaid"
	TypeOther     LeaveType = "other"
)

var validTypes = []string{
	string(TypeSick), string(TypeCasual), string(TypeAnnual), string(TypeMaternity),
	string(TypePaternity), string(TypeUnpaid), string(TypeOther),
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var validStatuses = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

type LeaveRequest struct {
	ID               string
	EmployeeID       string
	LeaveType        LeaveType
	Subject          string
	Description      *string
	StartDate        time.Time
	EndDate          time.Time
	Status           Status
	ApproverID       *string
	DecidedAt        *time.Time
	RejectionComment *string
	HasDocument      bool
	DocumentPath     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined from employees
	EmployeeName string
	EmployeeCode string
	ApproverName *string
}

// TotalDays counts calendar days, both ends inclusive.
func (l LeaveRequest) TotalDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// Covers reports whether date falls inside the request.
func (l LeaveRequest) Covers(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}
