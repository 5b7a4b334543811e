package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/task"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-admin-backend/internal/service/file"
)

type TaskServiceImpl struct {
	task.TaskRepository
	employeeRepo        employee.EmployeeRepository
	fileService         file.FileService
	emailService        email.EmailService
	notificationService notification.Service
	hub                 *sse.Hub
	location            *time.Location
	frontendURL         string
	now                 func() time.Time
}

// NewTaskService builds the task service. loc is the office time zone used
// to decide when a due date has passed.
func NewTaskService(
	taskRepo task.TaskRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	emailService email.EmailService,
	notificationService notification.Service,
	hub *sse.Hub,
	loc *time.Location,
	frontendURL string,
) task.TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskServiceImpl{
		TaskRepository:      taskRepo,
		employeeRepo:        employeeRepo,
		fileService:         fileService,
		emailService:        emailService,
		notificationService: notificationService,
		hub:                 hub,
		location:            loc,
		frontendURL:         strings.TrimRight(frontendURL, "/"),
		now:                 time.Now,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (s *TaskServiceImpl) localNow() time.Time {
	return s.now().In(s.location)
}

func (s *TaskServiceImpl) toResponse(ctx context.Context, t task.Task) task.TaskResponse {
	resp := task.TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		AssigneeID:      t.AssigneeID,
		AssigneeName:    t.AssigneeName,
		CreatorID:       t.CreatorID,
		CreatorName:     t.CreatorName,
		Priority:        string(t.Priority),
		Status:          string(t.Status),
		IsOverdue:       t.IsOverdue(s.localNow()),
		StartedAt:       formatTime(t.StartedAt),
		CompletedAt:     formatTime(t.CompletedAt),
		ReviewedAt:      formatTime(t.ReviewedAt),
		CompletionNotes: t.CompletionNotes,
		RejectionNotes:  t.RejectionNotes,
		References:      t.References,
		PhotoURLs:       make([]string, 0, len(t.PhotoPaths)),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
	if resp.References == nil {
		resp.References = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	for _, key := range t.PhotoPaths {
		if url, err := s.fileService.GetFileURL(ctx, key); err == nil {
			resp.PhotoURLs = append(resp.PhotoURLs, url)
		}
	}
	return resp
}

func (s *TaskServiceImpl) activeAssignee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, task.ErrAssigneeNotFound
		}
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, task.ErrAssigneeInactive
	}
	return emp, nil
}

// publish pushes the task to its assignee and to admin dashboards.
func (s *TaskServiceImpl) publish(resp task.TaskResponse, assigneeUserID string) {
	event := sse.Event{Event: sse.EventTaskUpdated, Data: resp}
	s.hub.PublishToAdmins(event)
	if assigneeUserID != "" {
		s.hub.Publish(assigneeUserID, event)
	}
}

func (s *TaskServiceImpl) notify(ctx context.Context, recipientID, senderID string, notifType notification.NotificationType, title, message string, t task.Task) {
	req := notification.CreateNotificationRequest{
		RecipientID: recipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data: map[string]any{
			"task_id": t.ID,
			"status":  string(t.Status),
		},
	}
	if senderID != "" {
		req.SenderID = &senderID
	}
	if err := s.notificationService.QueueNotification(ctx, req); err != nil {
		slog.Warn("failed to queue task notification", "task_id", t.ID, "error", err)
	}
}

// notifyAssigned tells the assignee about a new assignment, in-app and by email.
func (s *TaskServiceImpl) notifyAssigned(ctx context.Context, senderID string, assignee employee.Employee, t task.Task) {
	s.notify(ctx, assignee.UserID, senderID, notification.TypeTaskAssigned,
		"New task assigned", fmt.Sprintf("You have been assigned %q", t.Title), t)

	var due *string
	if t.DueDate != nil {
		d := t.DueDate.Format("2006-01-02")
		due = &d
	}
	taskURL := fmt.Sprintf("%s/tasks/%s", s.frontendURL, t.ID)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if !s.notificationService.EmailEnabled(ctx, assignee.UserID, notification.TypeTaskAssigned) {
			return
		}
		if err := s.emailService.SendTaskAssigned(assignee.Email, assignee.FullName, t.Title, due, taskURL); err != nil {
			slog.Error("failed to send task assigned email", "to", assignee.Email, "error", err)
		}
	}()
}

// CreateTask implements task.TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	assignee, err := s.activeAssignee(ctx, req.AssigneeID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	var description *string
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		description = req.Description
	}

	created, err := s.TaskRepository.Create(ctx, task.Task{
		Title:       req.Title,
		Description: description,
		AssigneeID:  assignee.ID,
		CreatorID:   claims.UserID,
		Priority:    task.Priority(req.Priority),
		DueDate:     req.Due,
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, created)
	s.publish(resp, assignee.UserID)
	s.notifyAssigned(ctx, claims.UserID, assignee, created)

	return resp, nil
}

func (s *TaskServiceImpl) list(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return task.ListTaskResponse{}, err
	}

	local := s.localNow()
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	tasks, total, err := s.TaskRepository.List(ctx, filter, today)
	if err != nil {
		return task.ListTaskResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, s.toResponse(ctx, t))
	}

	return task.ListTaskResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Tasks:      responses,
	}, nil
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	return s.list(ctx, filter)
}

// GetMyTasks implements task.TaskService.
func (s *TaskServiceImpl) GetMyTasks(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return task.ListTaskResponse{}, err
	}
	if claims.EmployeeID == "" {
		return task.ListTaskResponse{}, employee.ErrNoEmployeeProfile
	}
	filter.AssigneeID = &claims.EmployeeID
	return s.list(ctx, filter)
}

// GetTask implements task.TaskService. Employees only see tasks assigned to them.
func (s *TaskServiceImpl) GetTask(ctx context.Context, id string) (task.TaskResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !claims.IsAdmin() && t.AssigneeID != claims.EmployeeID {
		return task.TaskResponse{}, task.ErrTaskNotFound
	}

	return s.toResponse(ctx, t), nil
}

// UpdateTask implements task.TaskService.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	existing, err := s.TaskRepository.GetByID(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	switch existing.Status {
	case task.StatusNotStarted, task.StatusInProgress, task.StatusShelved:
	default:
		return task.TaskResponse{}, task.ErrTaskNotEditable
	}

	var newAssignee *employee.Employee
	if req.AssigneeID != nil && *req.AssigneeID != existing.AssigneeID {
		assignee, err := s.activeAssignee(ctx, *req.AssigneeID)
		if err != nil {
			return task.TaskResponse{}, err
		}
		newAssignee = &assignee
	}

	if err := s.TaskRepository.Update(ctx, req); err != nil {
		return task.TaskResponse{}, err
	}

	updated, err := s.TaskRepository.GetByID(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	if newAssignee != nil {
		s.notifyAssigned(ctx, claims.UserID, *newAssignee, updated)
	}

	return resp, nil
}

// DeleteTask implements task.TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	existing, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.TaskRepository.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range existing.PhotoPaths {
		if err := s.fileService.DeleteFile(ctx, key); err != nil {
			slog.Warn("failed to delete task photo", "key", key, "error", err)
		}
	}
	s.hub.PublishToAdmins(sse.Event{Event: sse.EventTaskUpdated, Data: map[string]any{"id": id, "deleted": true}})
	return nil
}

// transition loads the task, checks the actor may move it to `to`, applies
// mutate and writes the change guarded by the status it was read in.
func (s *TaskServiceImpl) transition(ctx context.Context, id string, to task.Status, actor task.Actor, mutate func(*task.Task)) (task.Task, jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return task.Task{}, jwt.Claims{}, err
	}

	current, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, claims, err
	}
	if actor == task.ActorAssignee && current.AssigneeID != claims.EmployeeID {
		return task.Task{}, claims, task.ErrNotTaskAssignee
	}
	if !task.CanTransition(current.Status, to, actor) {
		return task.Task{}, claims, task.ErrInvalidTransition
	}

	next := current
	next.Status = to
	if mutate != nil {
		mutate(&next)
	}

	updated, err := s.TaskRepository.Transition(ctx, id, current.Status, next)
	if err != nil {
		return task.Task{}, claims, err
	}
	return updated, claims, nil
}

// ShelveTask implements task.TaskService.
func (s *TaskServiceImpl) ShelveTask(ctx context.Context, id string) (task.TaskResponse, error) {
	updated, claims, err := s.transition(ctx, id, task.StatusShelved, task.ActorAdmin, nil)
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	s.notify(ctx, updated.AssigneeUserID, claims.UserID, notification.TypeTaskShelved,
		"Task shelved", fmt.Sprintf("%q has been put on hold", updated.Title), updated)
	return resp, nil
}

// ReopenTask implements task.TaskService.
func (s *TaskServiceImpl) ReopenTask(ctx context.Context, id string) (task.TaskResponse, error) {
	updated, _, err := s.transition(ctx, id, task.StatusNotStarted, task.ActorAdmin, func(t *task.Task) {
		t.StartedAt = nil
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	return resp, nil
}

// AcceptTask implements task.TaskService.
func (s *TaskServiceImpl) AcceptTask(ctx context.Context, id string) (task.TaskResponse, error) {
	now := s.now().UTC()
	updated, claims, err := s.transition(ctx, id, task.StatusAccepted, task.ActorAdmin, func(t *task.Task) {
		t.ReviewedAt = &now
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	s.notify(ctx, updated.AssigneeUserID, claims.UserID, notification.TypeTaskAccepted,
		"Task accepted", fmt.Sprintf("Your work on %q was accepted", updated.Title), updated)
	return resp, nil
}

// RejectTask implements task.TaskService.
func (s *TaskServiceImpl) RejectTask(ctx context.Context, req task.RejectTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	now := s.now().UTC()
	notes := strings.TrimSpace(req.Notes)
	updated, claims, err := s.transition(ctx, req.ID, task.StatusRejected, task.ActorAdmin, func(t *task.Task) {
		t.ReviewedAt = &now
		t.RejectionNotes = &notes
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	s.notify(ctx, updated.AssigneeUserID, claims.UserID, notification.TypeTaskRejected,
		"Task rejected", fmt.Sprintf("Your work on %q was rejected: %s", updated.Title, notes), updated)
	return resp, nil
}

// StartTask implements task.TaskService.
func (s *TaskServiceImpl) StartTask(ctx context.Context, id string) (task.TaskResponse, error) {
	now := s.now().UTC()
	updated, _, err := s.transition(ctx, id, task.StatusInProgress, task.ActorAssignee, func(t *task.Task) {
		t.StartedAt = &now
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	return resp, nil
}

// CompleteTask implements task.TaskService.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, req task.CompleteTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	uploaded := make([]string, 0, len(req.Files))
	cleanup := func() {
		for _, key := range uploaded {
			_ = s.fileService.DeleteFile(ctx, key)
		}
	}
	for i, f := range req.Files {
		if i >= len(req.FileHeaders) {
			break
		}
		key, err := s.fileService.UploadTaskPhoto(ctx, req.ID, f, req.FileHeaders[i].Filename)
		if err != nil {
			cleanup()
			if errors.Is(err, file.ErrInvalidFileType) {
				return task.TaskResponse{}, task.ErrInvalidPhotoType
			}
			return task.TaskResponse{}, fmt.Errorf("failed to upload task photo: %w", err)
		}
		uploaded = append(uploaded, key)
	}

	now := s.now().UTC()
	updated, claims, err := s.transition(ctx, req.ID, task.StatusCompleted, task.ActorAssignee, func(t *task.Task) {
		t.CompletedAt = &now
		t.CompletionNotes = req.Notes
		t.References = append(append([]string{}, t.References...), req.References...)
		t.PhotoPaths = append(append([]string{}, t.PhotoPaths...), uploaded...)
	})
	if err != nil {
		cleanup()
		return task.TaskResponse{}, err
	}

	resp := s.toResponse(ctx, updated)
	s.publish(resp, updated.AssigneeUserID)
	s.notifyAdminsCompleted(ctx, claims.UserID, updated)
	return resp, nil
}

func (s *TaskServiceImpl) notifyAdminsCompleted(ctx context.Context, senderID string, t task.Task) {
	adminIDs, err := s.employeeRepo.GetAdminUserIDs(ctx)
	if err != nil {
		slog.Error("failed to load admins for task notification", "task_id", t.ID, "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(adminIDs))
	for _, adminID := range adminIDs {
		if adminID == senderID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: adminID,
			SenderID:    &senderID,
			Type:        notification.TypeTaskCompleted,
			Title:       "Task ready for review",
			Message:     fmt.Sprintf("%s completed %q", t.AssigneeName, t.Title),
			Data: map[string]any{
				"task_id": t.ID,
				"status":  string(t.Status),
			},
		})
	}
	if len(reqs) == 0 {
		return
	}
	if err := s.notificationService.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Warn("failed to queue task completion notifications", "task_id", t.ID, "error", err)
	}
}
