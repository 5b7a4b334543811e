package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// HasOverlap reports pending or approved requests of the employee that
	// intersect [start, end].
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	// Decide moves a pending request to approved or rejected. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Decide(ctx context.Context, id string, status Status, approverID string, comment *string) (LeaveRequest, error)
	// DeletePending removes the employee's own pending request.
	DeletePending(ctx context.Context, id, employeeID string) error
	// ApprovedEmployeeIDsOn lists employees with approved leave covering date.
	ApprovedEmployeeIDsOn(ctx context.Context, date time.Time) ([]string, error)
}
