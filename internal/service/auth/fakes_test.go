package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/google/uuid"
)

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]user.User{}}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) LinkGoogleAccount(_ context.Context, googleID string, email string) (user.User, error) {
	for id, u := range f.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			f.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// link mirrors the users/employees join done by the real repository.
func (f *fakeUserRepo) link(userID, employeeID string) {
	u := f.users[userID]
	u.EmployeeID = &employeeID
	f.users[userID] = u
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	users     *fakeUserRepo
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(users *fakeUserRepo) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{users: users, employees: map[string]employee.Employee{}}
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ExistsByCode(_ context.Context, code string, _ *string) (bool, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = uuid.NewString()
	f.employees[e.ID] = e
	f.users.link(e.UserID, e.ID)
	return e, nil
}

type fakeRefreshRepo struct {
	auth.RefreshTokenRepository
	tokens  map[string]string
	revoked map[string]bool
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]string{}, revoked: map[string]bool{}}
}

func (f *fakeRefreshRepo) CreateRefreshToken(_ context.Context, userID string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeRefreshRepo) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", true, nil
	}
	return userID, f.revoked[token], nil
}

func (f *fakeRefreshRepo) RevokeRefreshToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}
