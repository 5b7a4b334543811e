package leave

import "context"

type LeaveService interface {
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetMyRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	CancelRequest(ctx context.Context, id string) error

	ListRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ApproveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	RejectRequest(ctx context.Context, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)
}
