package leave

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	requests map[string]leave.LeaveRequest
}

func (f *fakeLeaveRepo) Create(_ context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	f.requests[l.ID] = l
	return l, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	l, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return l, nil
}

func (f *fakeLeaveRepo) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, l := range f.requests {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) HasOverlap(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, l := range f.requests {
		if l.EmployeeID != employeeID || l.Status == leave.StatusRejected {
			continue
		}
		if !start.After(l.EndDate) && !end.Before(l.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) Decide(_ context.Context, id string, status leave.Status, approverID string, comment *string) (leave.LeaveRequest, error) {
	l, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !l.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	now := time.Now()
	l.Status = status
	l.ApproverID = &approverID
	l.DecidedAt = &now
	l.RejectionComment = comment
	f.requests[id] = l
	return l, nil
}

func (f *fakeLeaveRepo) DeletePending(_ context.Context, id, employeeID string) error {
	l, ok := f.requests[id]
	if !ok || l.EmployeeID != employeeID {
		return leave.ErrLeaveRequestNotFound
	}
	delete(f.requests, id)
	return nil
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

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
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
	deleted []string
}

func (f *fakeFileService) UploadAttendanceProof(context.Context, string, time.Time, io.Reader, string, string) (string, error) {
	return "", nil
}

func (f *fakeFileService) UploadLeaveDocument(_ context.Context, employeeID string, _ io.Reader, filename string) (string, error) {
	return "leave/" + employeeID + "/" + filename, nil
}

func (f *fakeFileService) UploadTaskPhoto(context.Context, string, io.Reader, string) (string, error) {
	return "", nil
}

func (f *fakeFileService) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileService) GetFileURL(_ context.Context, key string) (string, error) {
	return "http://files.test/" + key, nil
}

type fakeNotifications struct {
	notification.Service
	mu           sync.Mutex
	queued       []notification.CreateNotificationRequest
	emailOptOuts map[string]bool
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

func (f *fakeNotifications) EmailEnabled(_ context.Context, userID string, _ notification.NotificationType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.emailOptOuts[userID]
}

func (f *fakeNotifications) snapshot() []notification.CreateNotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.CreateNotificationRequest(nil), f.queued...)
}

type fakeEmail struct {
	mu        sync.Mutex
	submitted []string
	decisions []string
}

func (f *fakeEmail) SendAccountCreated(_, _, _ string) error { return nil }

func (f *fakeEmail) SendLeaveSubmitted(to, _, _, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, to)
	return nil
}

func (f *fakeEmail) SendLeaveDecision(to, _, _, _, _, status string, _ *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, to+":"+status)
	return nil
}

func (f *fakeEmail) SendTaskAssigned(_, _, _ string, _ *string, _ string) error { return nil }

func (f *fakeEmail) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted), len(f.decisions)
}

type fixture struct {
	svc       leave.LeaveService
	requests  *fakeLeaveRepo
	employees *fakeEmployeeRepo
	files     *fakeFileService
	notifs    *fakeNotifications
	email     *fakeEmail
	hub       *sse.Hub
	jwt       jwt.Service
}

func newFixture() *fixture {
	f := &fixture{
		requests:  &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{}},
		employees: &fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		files:     &fakeFileService{},
		notifs:    &fakeNotifications{emailOptOuts: map[string]bool{}},
		email:     &fakeEmail{},
		hub:       sse.NewHub(),
		jwt:       jwt.NewJWTService("test-secret", "1h", "24h", false),
	}
	f.svc = NewLeaveService(f.requests, f.employees, f.files, f.email, f.notifs, f.hub, "http://localhost:3000/")
	return f
}

func (f *fixture) addEmployee(code string, role user.Role) employee.Employee {
	e := employee.Employee{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
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

func (f *fixture) submit(t *testing.T, ctx context.Context, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{
		LeaveType: "sick",
		Subject:   "Flu",
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateRequest_NotifiesAdmins(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	emp := f.addEmployee("E001", user.RoleEmployee)

	resp := f.submit(t, f.ctxFor(t, emp), "2026-03-10", "2026-03-12")

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 3, resp.TotalDays)
	assert.False(t, resp.HasDocument)

	queued := f.notifs.snapshot()
	require.Len(t, queued, 1)
	assert.Equal(t, admin.UserID, queued[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveRequest, queued[0].Type)

	assert.Eventually(t, func() bool {
		submitted, _ := f.email.counts()
		return submitted == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateRequest_Overlap(t *testing.T) {
	f := newFixture()
	emp := f.addEmployee("E001", user.RoleEmployee)
	ctx := f.ctxFor(t, emp)

	f.submit(t, ctx, "2026-03-10", "2026-03-12")

	_, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{
		LeaveType: "casual",
		Subject:   "Trip",
		StartDate: "2026-03-12",
		EndDate:   "2026-03-14",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeaveRequest)
}

func TestCreateRequest_InvalidRange(t *testing.T) {
	f := newFixture()
	emp := f.addEmployee("E001", user.RoleEmployee)

	_, err := f.svc.CreateRequest(f.ctxFor(t, emp), leave.CreateLeaveRequestRequest{
		LeaveType: "sick",
		Subject:   "Flu",
		StartDate: "2026-03-12",
		EndDate:   "2026-03-10",
	})
	assert.ErrorContains(t, err, "end_date")
	assert.Empty(t, f.requests.requests)
}

func TestApproveRequest(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	emp := f.addEmployee("E001", user.RoleEmployee)
	created := f.submit(t, f.ctxFor(t, emp), "2026-03-10", "2026-03-10")

	events, unsubscribe := f.hub.Subscribe(emp.UserID, false)
	defer unsubscribe()

	resp, err := f.svc.ApproveRequest(f.ctxFor(t, admin), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApproverID)
	assert.Equal(t, admin.UserID, *resp.ApproverID)
	assert.NotNil(t, resp.DecidedAt)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventLeaveUpdated, ev.Event)
	default:
		t.Fatal("expected the employee to receive an event")
	}

	queued := f.notifs.snapshot()
	last := queued[len(queued)-1]
	assert.Equal(t, emp.UserID, last.RecipientID)
	assert.Equal(t, notification.TypeLeaveApproved, last.Type)

	assert.Eventually(t, func() bool {
		_, decisions := f.email.counts()
		return decisions == 1
	}, time.Second, 10*time.Millisecond)

	_, err = f.svc.RejectRequest(f.ctxFor(t, admin), leave.RejectLeaveRequestRequest{ID: created.ID, Comment: "no"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestRejectRequest_RequiresComment(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	emp := f.addEmployee("E001", user.RoleEmployee)
	created := f.submit(t, f.ctxFor(t, emp), "2026-03-10", "2026-03-10")

	_, err := f.svc.RejectRequest(f.ctxFor(t, admin), leave.RejectLeaveRequestRequest{ID: created.ID})
	assert.ErrorContains(t, err, "comment")

	resp, err := f.svc.RejectRequest(f.ctxFor(t, admin), leave.RejectLeaveRequestRequest{ID: created.ID, Comment: " Busy week "})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionComment)
	assert.Equal(t, "Busy week", *resp.RejectionComment)
}

func TestDecision_EmailRespectsPreference(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	emp := f.addEmployee("E001", user.RoleEmployee)
	f.notifs.emailOptOuts[emp.UserID] = true
	f.notifs.emailOptOuts[admin.UserID] = true

	created := f.submit(t, f.ctxFor(t, emp), "2026-03-10", "2026-03-10")
	_, err := f.svc.ApproveRequest(f.ctxFor(t, admin), created.ID)
	require.NoError(t, err)

	assert.Never(t, func() bool {
		submitted, decisions := f.email.counts()
		return submitted+decisions > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestCancelRequest(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	owner := f.addEmployee("E001", user.RoleEmployee)
	other := f.addEmployee("E002", user.RoleEmployee)

	pending := f.submit(t, f.ctxFor(t, owner), "2026-03-10", "2026-03-10")
	assert.ErrorIs(t, f.svc.CancelRequest(f.ctxFor(t, other), pending.ID), leave.ErrNotLeaveRequestOwner)
	require.NoError(t, f.svc.CancelRequest(f.ctxFor(t, owner), pending.ID))
	assert.Empty(t, f.requests.requests)

	decided := f.submit(t, f.ctxFor(t, owner), "2026-03-20", "2026-03-20")
	_, err := f.svc.ApproveRequest(f.ctxFor(t, admin), decided.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.CancelRequest(f.ctxFor(t, owner), decided.ID), leave.ErrLeaveRequestAlreadyProcessed)
}

func TestGetRequest_Visibility(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee("A001", user.RoleAdmin)
	owner := f.addEmployee("E001", user.RoleEmployee)
	other := f.addEmployee("E002", user.RoleEmployee)
	created := f.submit(t, f.ctxFor(t, owner), "2026-03-10", "2026-03-10")

	_, err := f.svc.GetRequest(f.ctxFor(t, owner), created.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetRequest(f.ctxFor(t, admin), created.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetRequest(f.ctxFor(t, other), created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestGetMyRequests_ScopedToCaller(t *testing.T) {
	f := newFixture()
	owner := f.addEmployee("E001", user.RoleEmployee)
	other := f.addEmployee("E002", user.RoleEmployee)
	f.submit(t, f.ctxFor(t, owner), "2026-03-10", "2026-03-10")
	f.submit(t, f.ctxFor(t, other), "2026-03-10", "2026-03-10")

	resp, err := f.svc.GetMyRequests(f.ctxFor(t, owner), leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.LeaveRequests, 1)
	assert.Equal(t, owner.ID, resp.LeaveRequests[0].EmployeeID)
}
