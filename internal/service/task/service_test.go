package task

import (
	"context"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/task"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskRepo struct {
	task.TaskRepository
	employees *fakeEmployeeRepo
	tasks     map[string]task.Task
	// raced simulates another writer changing the status between read and write.
	raced bool
}

func (f *fakeTaskRepo) join(t task.Task) task.Task {
	if e, ok := f.employees.employees[t.AssigneeID]; ok {
		t.AssigneeName = e.FullName
		t.AssigneeUserID = e.UserID
	}
	return t
}

func (f *fakeTaskRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.NewString()
	t.Status = task.StatusNotStarted
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return f.join(t), nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (task.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return f.join(t), nil
}

func (f *fakeTaskRepo) List(_ context.Context, filter task.TaskFilter, _ time.Time) ([]task.Task, int64, error) {
	var out []task.Task
	for _, t := range f.tasks {
		if filter.AssigneeID != nil && t.AssigneeID != *filter.AssigneeID {
			continue
		}
		out = append(out, f.join(t))
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaskRepo) Update(_ context.Context, req task.UpdateTaskRequest) error {
	t, ok := f.tasks[req.ID]
	if !ok {
		return task.ErrTaskNotFound
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.AssigneeID != nil {
		t.AssigneeID = *req.AssigneeID
	}
	if req.DueDate != nil {
		t.DueDate = req.Due
	}
	f.tasks[req.ID] = t
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) Transition(_ context.Context, id string, from task.Status, next task.Task) (task.Task, error) {
	current, ok := f.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	if f.raced || current.Status != from {
		return task.Task{}, task.ErrTaskStatusChanged
	}
	f.tasks[id] = next
	return f.join(next), nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetAdminUserIDs(_ context.Context) ([]string, error) {
	var ids []string
	for _, e := range f.employees {
		if e.Role == user.RoleAdmin {
			ids = append(ids, e.UserID)
		}
	}
	return ids, nil
}

type fakeFileService struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeFileService) UploadAttendanceProof(context.Context, string, time.Time, io.Reader, string, string) (string, error) {
	return "", nil
}

func (f *fakeFileService) UploadLeaveDocument(context.Context, string, io.Reader, string) (string, error) {
	return "", nil
}

func (f *fakeFileService) UploadTaskPhoto(_ context.Context, taskID string, _ io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "tasks/" + taskID + "/" + filename
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeFileService) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileService) GetFileURL(_ context.Context, key string) (string, error) {
	return "http://files.test/" + key, nil
}

type fakeNotifications struct {
	notification.Service
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotifications) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
	return nil
}

func (f *fakeNotifications) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, reqs...)
	return nil
}

func (f *fakeNotifications) EmailEnabled(context.Context, string, notification.NotificationType) bool {
	return true
}

func (f *fakeNotifications) last() notification.CreateNotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queued[len(f.queued)-1]
}

type fakeEmail struct {
	mu       sync.Mutex
	assigned []string
}

func (f *fakeEmail) SendAccountCreated(_, _, _ string) error { return nil }

func (f *fakeEmail) SendLeaveSubmitted(_, _, _, _, _, _ string) error { return nil }

func (f *fakeEmail) SendLeaveDecision(_, _, _, _, _, _ string, _ *string) error { return nil }

func (f *fakeEmail) SendTaskAssigned(to, _, _ string, _ *string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, to)
	return nil
}

func (f *fakeEmail) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.assigned...)
}

type fixture struct {
	svc       *TaskServiceImpl
	tasks     *fakeTaskRepo
	employees *fakeEmployeeRepo
	files     *fakeFileService
	notifs    *fakeNotifications
	email     *fakeEmail
	hub       *sse.Hub
	jwt       jwt.Service

	admin    employee.Employee
	assignee employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	f := &fixture{
		tasks:     &fakeTaskRepo{employees: employees, tasks: map[string]task.Task{}},
		employees: employees,
		files:     &fakeFileService{},
		notifs:    &fakeNotifications{},
		email:     &fakeEmail{},
		hub:       sse.NewHub(),
		jwt:       jwt.NewJWTService("test-secret", "1h", "24h", false),
	}
	f.svc = NewTaskService(f.tasks, f.employees, f.files, f.email, f.notifs, f.hub, time.UTC, "http://localhost:3000").(*TaskServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	f.admin = f.addEmployee("A001", user.RoleAdmin)
	f.assignee = f.addEmployee("E001", user.RoleEmployee)
	return f
}

func (f *fixture) addEmployee(code string, role user.Role) employee.Employee {
	e := employee.Employee{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        strings.ToLower(code) + "@example.com",
		Role:         role,
		IsActive:     true,
	}
	f.employees.employees[e.ID] = e
	return e
}

func (f *fixture) ctxFor(t *testing.T, e employee.Employee) context.Context {
	t.Helper()
	tokenString, _, err := f.jwt.GenerateAccessToken(e.UserID, e.Email, &e.ID, e.Role)
	require.NoError(t, err)
	token, err := f.jwt.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func (f *fixture) create(t *testing.T) task.TaskResponse {
	t.Helper()
	due := "2026-03-05"
	resp, err := f.svc.CreateTask(f.ctxFor(t, f.admin), task.CreateTaskRequest{
		Title:      "Prepare audit",
		AssigneeID: f.assignee.ID,
		DueDate:    &due,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateTask_NotifiesAssignee(t *testing.T) {
	f := newFixture(t)
	events, unsubscribe := f.hub.Subscribe(f.assignee.UserID, false)
	defer unsubscribe()

	resp := f.create(t)

	assert.Equal(t, "not_started", resp.Status)
	assert.Equal(t, "medium", resp.Priority)
	assert.Equal(t, f.admin.UserID, resp.CreatorID)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-03-05", *resp.DueDate)
	assert.False(t, resp.IsOverdue)
	assert.Equal(t, []string{}, resp.References)

	last := f.notifs.last()
	assert.Equal(t, f.assignee.UserID, last.RecipientID)
	assert.Equal(t, notification.TypeTaskAssigned, last.Type)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventTaskUpdated, ev.Event)
	default:
		t.Fatal("expected the assignee to receive an event")
	}

	assert.Eventually(t, func() bool {
		return len(f.email.sent()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateTask_Assignee(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctxFor(t, f.admin)

	_, err := f.svc.CreateTask(ctx, task.CreateTaskRequest{Title: "x", AssigneeID: uuid.NewString()})
	assert.ErrorIs(t, err, task.ErrAssigneeNotFound)

	inactive := f.addEmployee("E009", user.RoleEmployee)
	inactive.IsActive = false
	f.employees.employees[inactive.ID] = inactive

	_, err = f.svc.CreateTask(ctx, task.CreateTaskRequest{Title: "x", AssigneeID: inactive.ID})
	assert.ErrorIs(t, err, task.ErrAssigneeInactive)
}

func TestLifecycle_StartCompleteAccept(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	employeeCtx := f.ctxFor(t, f.assignee)
	adminCtx := f.ctxFor(t, f.admin)

	_, err := f.svc.AcceptTask(adminCtx, created.ID)
	assert.ErrorIs(t, err, task.ErrInvalidTransition)

	started, err := f.svc.StartTask(employeeCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", started.Status)
	assert.NotNil(t, started.StartedAt)

	notes := "done"
	completed, err := f.svc.CompleteTask(employeeCtx, task.CompleteTaskRequest{
		ID:          created.ID,
		Notes:       &notes,
		References:  []string{"https://example.com/report"},
		Files:       []multipart.File{nil},
		FileHeaders: []*multipart.FileHeader{{Filename: "proof.jpg", Size: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, []string{"https://example.com/report"}, completed.References)
	require.Len(t, completed.PhotoURLs, 1)
	assert.Contains(t, completed.PhotoURLs[0], "proof.jpg")

	last := f.notifs.last()
	assert.Equal(t, f.admin.UserID, last.RecipientID)
	assert.Equal(t, notification.TypeTaskCompleted, last.Type)

	accepted, err := f.svc.AcceptTask(adminCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Status)
	assert.NotNil(t, accepted.ReviewedAt)
	assert.Equal(t, notification.TypeTaskAccepted, f.notifs.last().Type)

	_, err = f.svc.RejectTask(adminCtx, task.RejectTaskRequest{ID: created.ID, Notes: "late"})
	assert.ErrorIs(t, err, task.ErrInvalidTransition)
}

func TestRejectTask_RequiresNotes(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	employeeCtx := f.ctxFor(t, f.assignee)
	adminCtx := f.ctxFor(t, f.admin)

	_, err := f.svc.StartTask(employeeCtx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteTask(employeeCtx, task.CompleteTaskRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.RejectTask(adminCtx, task.RejectTaskRequest{ID: created.ID})
	assert.ErrorContains(t, err, "notes")

	rejected, err := f.svc.RejectTask(adminCtx, task.RejectTaskRequest{ID: created.ID, Notes: "missing figures"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	require.NotNil(t, rejected.RejectionNotes)
	assert.Equal(t, "missing figures", *rejected.RejectionNotes)
}

func TestStartTask_OnlyAssignee(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	other := f.addEmployee("E002", user.RoleEmployee)

	_, err := f.svc.StartTask(f.ctxFor(t, other), created.ID)
	assert.ErrorIs(t, err, task.ErrNotTaskAssignee)

	// Admins cannot start on the assignee's behalf.
	_, err = f.svc.StartTask(f.ctxFor(t, f.admin), created.ID)
	assert.ErrorIs(t, err, task.ErrNotTaskAssignee)
}

func TestShelveAndReopen(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	adminCtx := f.ctxFor(t, f.admin)

	_, err := f.svc.StartTask(f.ctxFor(t, f.assignee), created.ID)
	require.NoError(t, err)

	shelved, err := f.svc.ShelveTask(adminCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "shelved", shelved.Status)
	assert.Equal(t, notification.TypeTaskShelved, f.notifs.last().Type)

	reopened, err := f.svc.ReopenTask(adminCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "not_started", reopened.Status)
	assert.Nil(t, reopened.StartedAt)
}

func TestTransition_ConcurrentChange(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	f.tasks.raced = true

	_, err := f.svc.StartTask(f.ctxFor(t, f.assignee), created.ID)
	assert.ErrorIs(t, err, task.ErrTaskStatusChanged)
}

func TestCompleteTask_CleansUpPhotosOnFailure(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)

	_, err := f.svc.CompleteTask(f.ctxFor(t, f.assignee), task.CompleteTaskRequest{
		ID:          created.ID,
		Files:       []multipart.File{nil},
		FileHeaders: []*multipart.FileHeader{{Filename: "proof.png", Size: 10}},
	})
	assert.ErrorIs(t, err, task.ErrInvalidTransition)
	assert.Equal(t, f.files.uploaded, f.files.deleted)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	adminCtx := f.ctxFor(t, f.admin)
	next := f.addEmployee("E002", user.RoleEmployee)

	title := "Prepare annual audit"
	updated, err := f.svc.UpdateTask(adminCtx, task.UpdateTaskRequest{ID: created.ID, Title: &title, AssigneeID: &next.ID})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, next.ID, updated.AssigneeID)
	assert.Equal(t, next.UserID, f.notifs.last().RecipientID)

	f.tasks.tasks[created.ID] = func() task.Task {
		tk := f.tasks.tasks[created.ID]
		tk.Status = task.StatusAccepted
		return tk
	}()
	_, err = f.svc.UpdateTask(adminCtx, task.UpdateTaskRequest{ID: created.ID, Title: &title})
	assert.ErrorIs(t, err, task.ErrTaskNotEditable)
}

func TestGetTask_Visibility(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	other := f.addEmployee("E002", user.RoleEmployee)

	_, err := f.svc.GetTask(f.ctxFor(t, f.assignee), created.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetTask(f.ctxFor(t, other), created.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestOverdueIsDerived(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC) }

	resp, err := f.svc.GetTask(f.ctxFor(t, f.admin), created.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsOverdue)
	assert.Equal(t, "not_started", resp.Status)
}

func TestDeleteTask_RemovesPhotos(t *testing.T) {
	f := newFixture(t)
	created := f.create(t)
	tk := f.tasks.tasks[created.ID]
	tk.PhotoPaths = []string{"tasks/a.jpg"}
	f.tasks.tasks[created.ID] = tk

	require.NoError(t, f.svc.DeleteTask(context.Background(), created.ID))
	assert.Equal(t, []string{"tasks/a.jpg"}, f.files.deleted)
	assert.ErrorIs(t, f.svc.DeleteTask(context.Background(), created.ID), task.ErrTaskNotFound)
}

func TestGetMyTasks(t *testing.T) {
	f := newFixture(t)
	f.create(t)
	other := f.addEmployee("E002", user.RoleEmployee)

	mine, err := f.svc.GetMyTasks(f.ctxFor(t, f.assignee), task.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	theirs, err := f.svc.GetMyTasks(f.ctxFor(t, other), task.TaskFilter{})
	require.NoError(t, err)
	assert.Zero(t, theirs.TotalCount)
}
