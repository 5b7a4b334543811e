package auth

import (
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{
		FullName:        "Asha Menon",
		EmployeeCode:    "EMP-0002",
		Email:           "ASHA@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "asha@example.com", req.Email)

	req.ConfirmPassword = "different"
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Equal(t, "password and confirm_password do not match", verrs.ToMap()["confirm_password"])
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "bad", Password: ""}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "email")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestRefreshTokenRequest_Validate(t *testing.T) {
	assert.Error(t, (&RefreshTokenRequest{}).Validate())
	assert.NoError(t, (&RefreshTokenRequest{RefreshToken: "abc"}).Validate())
}
