package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type authFixture struct {
	svc       auth.AuthService
	jwt       jwt.Service
	users     *fakeUserRepo
	employees *fakeEmployeeRepo
	refresh   *fakeRefreshRepo
}

func newAuthFixture() authFixture {
	users := newFakeUserRepo()
	employees := newFakeEmployeeRepo(users)
	refresh := newFakeRefreshRepo()
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	return authFixture{
		svc:       NewAuthService(fakeTx{}, users, employees, jwtService, refresh),
		jwt:       jwtService,
		users:     users,
		employees: employees,
		refresh:   refresh,
	}
}

var session = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func register(t *testing.T, f authFixture, email, code string) auth.TokenResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		FullName:     "Jane Doe",
		EmployeeCode: code,
		Email:        email,
		Password:     "password123",
	}, session)
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register_CreatesUserAndProfile(t *testing.T) {
	f := newAuthFixture()

	resp := register(t, f, "jane@example.com", "EMP001")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))

	u, err := f.users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, "EMP001", f.employees.employees[*u.EmployeeID].EmployeeCode)
	assert.Contains(t, f.refresh.tokens, resp.RefreshToken)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	f := newAuthFixture()
	register(t, f, "jane@example.com", "EMP001")

	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		FullName: "Other", EmployeeCode: "EMP002", Email: "jane@example.com", Password: "password123",
	}, session)
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	_, err = f.svc.Register(context.Background(), auth.RegisterRequest{
		FullName: "Other", EmployeeCode: "EMP001", Email: "other@example.com", Password: "password123",
	}, session)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	register(t, f, "jane@example.com", "EMP001")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "jane@example.com", Password: "password123"}, session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "jane@example.com", Password: "wrong-password"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveEmployee(t *testing.T) {
	f := newAuthFixture()
	register(t, f, "jane@example.com", "EMP001")

	for id, e := range f.employees.employees {
		e.IsActive = false
		f.employees.employees[id] = e
	}

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "password123"}, session)
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	f := newAuthFixture()
	tokens := register(t, f, "jane@example.com", "EMP001")
	ctx := context.Background()

	access, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, access.AccessToken)

	// An access token is not a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	f := newAuthFixture()
	register(t, f, "jane@example.com", "EMP001")
	ctx := context.Background()

	_, err := f.svc.LoginWithGoogle(ctx, "stranger@example.com", "g-1", session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	resp, err := f.svc.LoginWithGoogle(ctx, "Jane@Example.com", "g-1", session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	u, err := f.users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, u.OAuthProviderID)
	assert.Equal(t, "g-1", *u.OAuthProviderID)

	_, err = f.svc.LoginWithGoogle(ctx, "jane@example.com", "g-2", session)
	assert.ErrorIs(t, err, auth.ErrGoogleAccountLinked)
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture()
	tokens := register(t, f, "jane@example.com", "EMP001")

	token, err := f.jwt.JWTAuth().Decode(tokens.AccessToken)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.User.Email)
	require.NotNil(t, me.Employee)
	assert.Equal(t, "EMP001", me.Employee.EmployeeCode)

	_, err = f.svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.BootstrapAdmin(ctx, "Admin@Example.com", "password123", ""))
	require.NoError(t, f.svc.BootstrapAdmin(ctx, "admin@example.com", "password123", ""))

	assert.Len(t, f.users.users, 1)
	u, err := f.users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, "Administrator", f.employees.employees[*u.EmployeeID].FullName)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "password123"}, session)
	assert.NoError(t, err)
}
