package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-admin-backend/internal/service/file"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employeeRepo        employee.EmployeeRepository
	fileService         file.FileService
	emailService        email.EmailService
	notificationService notification.Service
	hub                 *sse.Hub
	frontendURL         string
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	emailService email.EmailService,
	notificationService notification.Service,
	hub *sse.Hub,
	frontendURL string,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		employeeRepo:           employeeRepo,
		fileService:            fileService,
		emailService:           emailService,
		notificationService:    notificationService,
		hub:                    hub,
		frontendURL:            strings.TrimRight(frontendURL, "/"),
	}
}

func (s *LeaveServiceImpl) toResponse(ctx context.Context, l leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:               l.ID,
		EmployeeID:       l.EmployeeID,
		EmployeeName:     l.EmployeeName,
		EmployeeCode:     l.EmployeeCode,
		LeaveType:        string(l.LeaveType),
		Subject:          l.Subject,
		Description:      l.Description,
		StartDate:        l.StartDate.Format("2006-01-02"),
		EndDate:          l.EndDate.Format("2006-01-02"),
		TotalDays:        l.TotalDays(),
		Status:           string(l.Status),
		ApproverID:       l.ApproverID,
		ApproverName:     l.ApproverName,
		RejectionComment: l.RejectionComment,
		HasDocument:      l.HasDocument,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        l.UpdatedAt.Format(time.RFC3339),
	}
	if l.DecidedAt != nil {
		decided := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	if l.DocumentPath != nil {
		if url, err := s.fileService.GetFileURL(ctx, *l.DocumentPath); err == nil {
			resp.DocumentURL = &url
		}
	}
	return resp
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.toResponse(ctx, r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    pagination.TotalPages(total, filter.Limit),
		Showing:       pagination.Showing(filter.Page, filter.Limit, total),
		LeaveRequests: responses,
	}, nil
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if claims.EmployeeID == "" {
		return leave.LeaveRequestResponse{}, employee.ErrNoEmployeeProfile
	}
	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	overlap, err := s.LeaveRequestRepository.HasOverlap(ctx, emp.ID, req.Start, req.End)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if overlap {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeaveRequest
	}

	var documentPath *string
	if req.File != nil && req.FileHeader != nil {
		key, err := s.fileService.UploadLeaveDocument(ctx, emp.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			if errors.Is(err, file.ErrInvalidFileType) {
				return leave.LeaveRequestResponse{}, leave.ErrInvalidDocumentType
			}
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to upload leave document: %w", err)
		}
		documentPath = &key
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:   emp.ID,
		LeaveType:    leave.LeaveType(req.LeaveType),
		Subject:      req.Subject,
		Description:  req.Description,
		StartDate:    req.Start,
		EndDate:      req.End,
		Status:       leave.StatusPending,
		HasDocument:  documentPath != nil,
		DocumentPath: documentPath,
	})
	if err != nil {
		if documentPath != nil {
			_ = s.fileService.DeleteFile(ctx, *documentPath)
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	resp := s.toResponse(ctx, created)
	s.hub.PublishToAdmins(sse.Event{Event: sse.EventLeaveUpdated, Data: resp})
	s.notifyAdmins(ctx, claims.UserID, emp, created)

	return resp, nil
}

// notifyAdmins tells every administrator about a new request, in-app and by email.
func (s *LeaveServiceImpl) notifyAdmins(ctx context.Context, senderID string, emp employee.Employee, l leave.LeaveRequest) {
	adminIDs, err := s.employeeRepo.GetAdminUserIDs(ctx)
	if err != nil {
		slog.Error("failed to load admins for leave notification", "leave_request_id", l.ID, "error", err)
		return
	}

	start, end := l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02")
	reqs := make([]notification.CreateNotificationRequest, 0, len(adminIDs))
	for _, adminID := range adminIDs {
		if adminID == senderID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: adminID,
			SenderID:    &senderID,
			Type:        notification.TypeLeaveRequest,
			Title:       "New leave request",
			Message:     fmt.Sprintf("%s requested %s leave from %s to %s", emp.FullName, l.LeaveType, start, end),
			Data: map[string]any{
				"leave_request_id": l.ID,
				"employee_id":      emp.ID,
			},
		})
	}
	if len(reqs) == 0 {
		return
	}
	if err := s.notificationService.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Warn("failed to queue leave notifications", "leave_request_id", l.ID, "error", err)
	}

	reviewURL := fmt.Sprintf("%s/leave-requests/%s", s.frontendURL, l.ID)
	recipients := make([]string, 0, len(reqs))
	for _, r := range reqs {
		recipients = append(recipients, r.RecipientID)
	}
	go func() {
		ctx := context.WithoutCancel(ctx)
		for _, adminID := range recipients {
			if !s.notificationService.EmailEnabled(ctx, adminID, notification.TypeLeaveRequest) {
				continue
			}
			admin, err := s.employeeRepo.GetByUserID(ctx, adminID)
			if err != nil {
				continue
			}
			if err := s.emailService.SendLeaveSubmitted(admin.Email, emp.FullName, string(l.LeaveType), start, end, reviewURL); err != nil {
				slog.Error("failed to send leave submitted email", "to", admin.Email, "error", err)
			}
		}
	}()
}

// GetMyRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if claims.EmployeeID == "" {
		return leave.ListLeaveRequestResponse{}, employee.ErrNoEmployeeProfile
	}
	filter.EmployeeID = &claims.EmployeeID
	filter.Search = nil
	return s.list(ctx, filter)
}

// CancelRequest implements leave.LeaveService. Only the owner's pending
// requests can be cancelled; the row is removed.
func (s *LeaveServiceImpl) CancelRequest(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.EmployeeID != claims.EmployeeID {
		return leave.ErrNotLeaveRequestOwner
	}
	if !existing.IsPending() {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	if err := s.LeaveRequestRepository.DeletePending(ctx, id, claims.EmployeeID); err != nil {
		return err
	}
	if existing.DocumentPath != nil {
		if err := s.fileService.DeleteFile(ctx, *existing.DocumentPath); err != nil {
			slog.Warn("failed to delete leave document", "key", *existing.DocumentPath, "error", err)
		}
	}

	s.hub.PublishToAdmins(sse.Event{Event: sse.EventLeaveUpdated, Data: map[string]any{"id": id, "deleted": true}})
	return nil
}

// ListRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	return s.list(ctx, filter)
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !claims.IsAdmin() && l.EmployeeID != claims.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	return s.toResponse(ctx, l), nil
}

// ApproveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, id, leave.StatusApproved, nil)
}

// RejectRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectRequest(ctx context.Context, req leave.RejectLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	comment := strings.TrimSpace(req.Comment)
	return s.decide(ctx, req.ID, leave.StatusRejected, &comment)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, id string, status leave.Status, comment *string) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decided, err := s.LeaveRequestRepository.Decide(ctx, id, status, claims.UserID, comment)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	resp := s.toResponse(ctx, decided)
	s.hub.PublishToAdmins(sse.Event{Event: sse.EventLeaveUpdated, Data: resp})
	s.notifyEmployee(ctx, claims.UserID, decided)

	return resp, nil
}

// notifyEmployee delivers the decision to the requester.
func (s *LeaveServiceImpl) notifyEmployee(ctx context.Context, approverID string, l leave.LeaveRequest) {
	emp, err := s.employeeRepo.GetByID(ctx, l.EmployeeID)
	if err != nil {
		slog.Error("failed to load employee for leave decision", "leave_request_id", l.ID, "error", err)
		return
	}

	notifType := notification.TypeLeaveApproved
	title := "Leave request approved"
	if l.Status == leave.StatusRejected {
		notifType = notification.TypeLeaveRejected
		title = "Leave request rejected"
	}

	start, end := l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02")
	data := map[string]any{
		"leave_request_id": l.ID,
		"status":           string(l.Status),
	}
	if l.RejectionComment != nil {
		data["comment"] = *l.RejectionComment
	}

	err = s.notificationService.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.UserID,
		SenderID:    &approverID,
		Type:        notifType,
		Title:       title,
		Message:     fmt.Sprintf("Your %s leave from %s to %s was %s", l.LeaveType, start, end, l.Status),
		Data:        data,
	})
	if err != nil {
		slog.Warn("failed to queue leave decision notification", "leave_request_id", l.ID, "error", err)
	}
	s.hub.Publish(emp.UserID, sse.Event{Event: sse.EventLeaveUpdated, Data: data})

	go func() {
		ctx := context.WithoutCancel(ctx)
		if !s.notificationService.EmailEnabled(ctx, emp.UserID, notifType) {
			return
		}
		if err := s.emailService.SendLeaveDecision(emp.Email, emp.FullName, string(l.LeaveType), start, end, string(l.Status), l.RejectionComment); err != nil {
			slog.Error("failed to send leave decision email", "to", emp.Email, "error", err)
		}
	}()
}
