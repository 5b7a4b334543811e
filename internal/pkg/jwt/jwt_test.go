package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret", "1h", "24h", false)
}

func TestAccessToken_ClaimsRoundTrip(t *testing.T) {
	svc := newTestService()
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "jane@example.com", &employeeID, user.RoleAdmin)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	var got Claims
	handler := jwtauth.Verifier(svc.JWTAuth())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", Email: "jane@example.com", EmployeeID: "emp-1", Role: user.RoleAdmin}, got)
	assert.True(t, got.IsAdmin())
}

func TestClaimsFromContext_NoToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken("user-1", user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, role, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, user.RoleAdmin, role)

	_, err = svc.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, _, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)

	_, err = NewJWTService("other-secret", "1h", "24h", false).ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestRefreshToken_IssuedAtIsSecondsAndTokensAreUnique(t *testing.T) {
	svc := newTestService()

	first, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	decoded, err := svc.JWTAuth().Decode(first)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), decoded.IssuedAt(), time.Minute)

	for _, token := range []string{first, second} {
		userID, err := svc.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	}
}

func TestRefreshTokenCookie(t *testing.T) {
	cookie := newTestService().RefreshTokenCookie("abc", 1700000000)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService()
	assert.False(t, svc.IsTokenRevoked("t"))
	svc.RevokeToken("t")
	assert.True(t, svc.IsTokenRevoked("t"))
}
