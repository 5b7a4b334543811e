package employee

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	u.ID = uuid.NewString()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	u := f.users[id]
	u.Email = email
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role user.Role) error {
	u := f.users[id]
	u.Role = role
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

// fakeEmployeeRepo joins email and role from the user fake like the SQL view does.
type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	users     *fakeUserRepo
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	u, ok := f.users.users[e.UserID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Email = u.Email
	e.Role = u.Role
	return e, nil
}

func (f *fakeEmployeeRepo) ExistsByCode(_ context.Context, code string, excludeID *string) (bool, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code && (excludeID == nil || *excludeID != e.ID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, id string, req employee.UpdateEmployeeRequest) error {
	e, ok := f.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.EmployeeCode != nil {
		e.EmployeeCode = *req.EmployeeCode
	}
	f.employees[id] = e
	return nil
}

func (f *fakeEmployeeRepo) SetActive(_ context.Context, id string, active bool) error {
	e := f.employees[id]
	e.IsActive = active
	f.employees[id] = e
	return nil
}

func (f *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	list := []employee.Employee{}
	for id := range f.employees {
		e, _ := f.GetByID(context.Background(), id)
		list = append(list, e)
	}
	return list, int64(len(list)), nil
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmail) SendAccountCreated(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmail) SendLeaveSubmitted(_, _, _, _, _, _ string) error { return nil }

func (f *fakeEmail) SendLeaveDecision(_, _, _, _, _, _ string, _ *string) error { return nil }

func (f *fakeEmail) SendTaskAssigned(_, _, _ string, _ *string, _ string) error { return nil }

func (f *fakeEmail) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fixture struct {
	svc       employee.EmployeeService
	users     *fakeUserRepo
	employees *fakeEmployeeRepo
	email     *fakeEmail
	jwt       jwt.Service
}

func newFixture() fixture {
	users := &fakeUserRepo{users: map[string]user.User{}}
	employees := &fakeEmployeeRepo{users: users, employees: map[string]employee.Employee{}}
	mail := &fakeEmail{}
	return fixture{
		svc:       NewEmployeeService(fakeTx{}, employees, users, mail, "http://localhost:3000/"),
		users:     users,
		employees: employees,
		email:     mail,
		jwt:       jwt.NewJWTService("test-secret", "1h", "24h", false),
	}
}

func (f fixture) ctxAs(t *testing.T, userID, employeeID string, role user.Role) context.Context {
	t.Helper()
	tokenString, _, err := f.jwt.GenerateAccessToken(userID, "x@example.com", &employeeID, role)
	require.NoError(t, err)
	token, err := f.jwt.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func (f fixture) create(t *testing.T, code, email string, role user.Role) employee.EmployeeResponse {
	t.Helper()
	resp, err := f.svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        email,
		Password:     "password123",
		Role:         string(role),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateEmployee(t *testing.T) {
	f := newFixture()

	resp := f.create(t, "EMP001", "Emp1@Example.com", user.RoleEmployee)

	assert.Equal(t, "emp1@example.com", resp.Email)
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, "office", resp.WorkMode)
	assert.True(t, resp.IsActive)
	assert.Eventually(t, func() bool {
		return len(f.email.sentTo()) == 1
	}, time.Second, 10*time.Millisecond)

	_, err := f.svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP002", FullName: "Dup", Email: "emp1@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = f.svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP001", FullName: "Dup", Email: "other@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestUpdateEmployee_EmailAndRoleGoToAccount(t *testing.T) {
	f := newFixture()
	admin := f.create(t, "ADM001", "admin@example.com", user.RoleAdmin)
	emp := f.create(t, "EMP001", "emp1@example.com", user.RoleEmployee)
	ctx := f.ctxAs(t, admin.UserID, admin.ID, user.RoleAdmin)

	email := "new@example.com"
	role := "admin"
	name := "Renamed"
	resp, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: emp.ID, Email: &email, Role: &role, FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "Renamed", resp.FullName)

	taken := "admin@example.com"
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: emp.ID, Email: &taken})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestUpdateEmployee_CannotDemoteSelf(t *testing.T) {
	f := newFixture()
	admin := f.create(t, "ADM001", "admin@example.com", user.RoleAdmin)
	ctx := f.ctxAs(t, admin.UserID, admin.ID, user.RoleAdmin)

	role := "employee"
	_, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: admin.ID, Role: &role})
	assert.ErrorIs(t, err, employee.ErrCannotDemoteSelf)
}

func TestDeactivateAndDelete(t *testing.T) {
	f := newFixture()
	admin := f.create(t, "ADM001", "admin@example.com", user.RoleAdmin)
	emp := f.create(t, "EMP001", "emp1@example.com", user.RoleEmployee)
	ctx := f.ctxAs(t, admin.UserID, admin.ID, user.RoleAdmin)

	resp, err := f.svc.DeactivateEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = f.svc.DeactivateEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyInactive)

	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, admin.ID), employee.ErrCannotDeleteSelf)

	require.NoError(t, f.svc.DeleteEmployee(ctx, emp.ID))
	_, err = f.svc.GetEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestMyProfile(t *testing.T) {
	f := newFixture()
	emp := f.create(t, "EMP001", "emp1@example.com", user.RoleEmployee)
	ctx := f.ctxAs(t, emp.UserID, emp.ID, user.RoleEmployee)

	phone := "+919876543210"
	resp, err := f.svc.UpdateMyProfile(ctx, employee.UpdateMyProfileRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, phone, *resp.Phone)

	me, err := f.svc.GetMyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, me.ID)

	_, err = f.svc.UpdateMyProfile(ctx, employee.UpdateMyProfileRequest{})
	assert.Error(t, err)
}

func TestListEmployees(t *testing.T) {
	f := newFixture()
	f.create(t, "EMP001", "emp1@example.com", user.RoleEmployee)
	f.create(t, "EMP002", "emp2@example.com", user.RoleEmployee)

	resp, err := f.svc.ListEmployees(context.Background(), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Employees, 2)
}
